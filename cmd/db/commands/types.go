package commands

import (
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	ErrNameRequired       = errors.New("NAME argument required")
	ErrGuildUserRequired  = errors.New("GUILD and USER arguments required")
	ErrGuildRequired      = errors.New("GUILD argument required")
	ErrSubmissionRequired = errors.New("SUBMISSION argument required")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}

// parseGuildUser reads the GUILD USER positional arguments.
func parseGuildUser(c *cli.Command) (snowflake.ID, snowflake.ID, error) {
	if c.Args().Len() != 2 {
		return 0, 0, ErrGuildUserRequired
	}

	guildID, err := snowflake.Parse(c.Args().Get(0))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild ID: %w", err)
	}

	userID, err := snowflake.Parse(c.Args().Get(1))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user ID: %w", err)
	}

	return guildID, userID, nil
}

func parseGuild(c *cli.Command) (snowflake.ID, error) {
	if c.Args().Len() != 1 {
		return 0, ErrGuildRequired
	}

	guildID, err := snowflake.Parse(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid guild ID: %w", err)
	}

	return guildID, nil
}

func parseSubmission(c *cli.Command) (uuid.UUID, error) {
	if c.Args().Len() != 1 {
		return uuid.Nil, ErrSubmissionRequired
	}

	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid submission ID: %w", err)
	}

	return id, nil
}
