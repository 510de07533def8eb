package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Validate ValidateCmd `cmd:"" help:"Validate a batch of extracted invoice records."`
	Rules    RulesCmd    `cmd:"" help:"List the validation rules."`
	Web      WebCmd      `cmd:"" help:"Start a validation web server."`
}
