// Package main provides a Dagger module for building and running Proofboard.
//
// The module is designed to be used with the Dagger CLI or SDKs to automate
// build and deployment workflows.
package main

import (
	"context"
	"dagger/proofboard/internal/dagger"
	"fmt"
	"strings"
)

const goImage = "golang:1.25-alpine"

// binaries lists every command shipped in the release image.
var binaries = []string{"bot", "db", "export"}

type Proofboard struct{}

// BuildContainer creates a container image holding the bot, db and export binaries.
func (m *Proofboard) BuildContainer(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
	// Platform to build for
	// +optional
	// +default="linux/amd64"
	platform *dagger.Platform,
) (*dagger.Container, error) {
	buildPlatform := dagger.Platform("linux/amd64")
	if platform != nil {
		buildPlatform = *platform
	}

	platformArch, err := dag.Containerd().ArchitectureOf(ctx, buildPlatform)
	if err != nil {
		return nil, fmt.Errorf("failed to get architecture: %w", err)
	}

	buildCtr := goContainer(src).
		WithEnvVariable("GOOS", "linux").
		WithEnvVariable("GOARCH", platformArch).
		WithExec([]string{"mkdir", "-p", "/src/bin", "/src/logs", "/src/exports"})

	for _, binary := range binaries {
		buildCtr = buildCtr.WithExec([]string{
			"go", "build",
			"-ldflags=-s -w",
			"-o", "/src/bin/" + binary,
			"./cmd/" + binary,
		})
	}

	// The export binary links the pure Go SQLite driver; keep it uncompressed
	buildCtr = buildCtr.WithExec([]string{"upx", "--best", "--lzma", "/src/bin/bot", "/src/bin/db"})

	return dag.Container(dagger.ContainerOpts{Platform: buildPlatform}).
		From("gcr.io/distroless/static-debian12:latest").
		WithDirectory("/app/bin", buildCtr.Directory("/src/bin")).
		WithDirectory("/app/logs", buildCtr.Directory("/src/logs")).
		WithDirectory("/app/exports", buildCtr.Directory("/src/exports")).
		WithFile("/etc/ssl/certs/ca-certificates.crt", buildCtr.File("/etc/ssl/certs/ca-certificates.crt")).
		WithWorkdir("/app").
		WithEntrypoint([]string{"/app/bin/bot"}), nil
}

// Test runs the unit test suite. Docker-backed tests sit behind the integration build tag.
func (m *Proofboard) Test(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
) (string, error) {
	return goContainer(src).
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}

// Publish the application container after building it for every platform.
func (m *Proofboard) Publish(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
	// Docker image name (e.g. "username/repo:tag")
	// +required
	imageName string,
	// Platforms to build for (comma-separated, e.g. "linux/amd64,linux/arm64")
	// +optional
	// +default="linux/amd64"
	platforms string,
) (string, error) {
	platformList := []dagger.Platform{"linux/amd64"}
	if platforms != "" {
		platformList = platformList[:0]
		for _, p := range strings.Split(platforms, ",") {
			platformList = append(platformList, dagger.Platform(strings.TrimSpace(p)))
		}
	}

	platformVariants := make([]*dagger.Container, 0, len(platformList))
	for _, platform := range platformList {
		container, err := m.BuildContainer(ctx, src, &platform)
		if err != nil {
			return "", fmt.Errorf("failed to build container for %s: %w", platform, err)
		}
		platformVariants = append(platformVariants, container)
	}

	ref, err := dag.Container().Publish(ctx, imageName, dagger.ContainerPublishOpts{
		PlatformVariants: platformVariants,
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish image: %w", err)
	}

	return ref, nil
}

// Run builds and runs one command with the given config directory.
func (m *Proofboard) Run(
	ctx context.Context,
	// Source code directory
	// +required
	src *dagger.Directory,
	// Directory holding common.toml and bot.toml
	// +required
	configDir *dagger.Directory,
	// Command to run: "bot", "db" or "export"
	// +required
	cmd string,
	// Extra arguments, e.g. "migrate" for db or "--guild 123 --format xlsx" for export
	// +optional
	args string,
) (*dagger.Container, error) {
	switch cmd {
	case "bot", "db", "export":
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}

	runCtr := goContainer(src).
		WithDirectory("/etc/proofboard/config", configDir).
		WithExec([]string{"go", "build", "-o", "/src/bin/proofboard", "./cmd/" + cmd})

	return runCtr.WithExec(append([]string{"/src/bin/proofboard"}, strings.Fields(args)...)), nil
}

// goContainer returns a Go toolchain container with module and build caches mounted.
func goContainer(src *dagger.Directory) *dagger.Container {
	return dag.Container().
		From(goImage).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithExec([]string{"apk", "add", "--no-cache", "upx", "ca-certificates", "build-base"}).
		WithDirectory("/src", src).
		WithWorkdir("/src").
		WithEnvVariable("CGO_ENABLED", "0")
}
