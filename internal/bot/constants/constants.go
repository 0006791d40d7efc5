package constants

const (
	// Commands.
	SubmitCommandName              = "submit"
	ReviewCommandName              = "review"
	LeaderboardCommandName         = "leaderboard"
	PostCommandName                = "post"
	ExportCommandName              = "export"
	SetChannelCommandName          = "setchannel"
	SetLeaderboardLimitCommandName = "setleaderboardlimit"
	AddOwnerCommandName            = "addowner"
	RemoveOwnerCommandName         = "removeowner"
	AddReviewerCommandName         = "addreviewer"
	RemoveReviewerCommandName      = "removereviewer"
	ListOwnersCommandName          = "listowners"
	BanUserCommandName             = "banuser"

	// Command options.
	UserOptionName    = "user"
	ChannelOptionName = "channel"
	LimitOptionName   = "limit"
	FormatOptionName  = "format"
	ReasonOptionName  = "reason"

	// Custom ID prefixes.
	CustomIDSeparator       = ":"
	ReviewCustomIDPrefix    = "review"
	PageCustomIDPrefix      = "lb"
	GuildSelectMenuCustomID = "intake:guild"

	// Review actions.
	ReviewPreviousAction = "prev"
	ReviewNextAction     = "next"
	ReviewApproveAction  = "approve"
	ReviewRejectAction   = "reject"

	// Select menus hold at most this many options.
	MaxSelectMenuOptions = 25

	// Embed colors.
	DefaultEmbedColor     = 0x312D2B
	ReviewEmbedColor      = 0x1ABC9C
	LeaderboardEmbedColor = 0xF1C40F

	DefaultBanReason = "No reason provided"
)
