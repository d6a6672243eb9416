package subdec

// Exit codes for CLI applications following lifecycle progression.
// Lower numbers indicate earlier failures in the application startup
// sequence:
//   - 1: Failed parsing command-line arguments
//   - 2: Failed materializing subcommand parsers
//   - 3: No handler resolvable for the parsed command
//   - 4: Expected/handled error during handler execution
//   - 5: Unexpected/unhandled error during execution
//   - 6: Failed to initialize output/logging infrastructure
//
// Scripts can use these codes to pick a recovery strategy: 1-3 are
// user or configuration mistakes to fix before retrying, 4 is a known
// error condition worth checking logs for, 5 and 6 need investigation.
//
// Note: Exit codes 128 and above are reserved for signal-related exits.
// See: https://tldp.org/LDP/abs/html/exitcodes.html
const (
	ExitSuccess             = 0 // Successful execution
	ExitOptionsParseError   = 1 // Command-line option parsing failed
	ExitParserSetupError    = 2 // Subcommand parser materialization failed
	ExitNoHandlerError      = 3 // Parsed command had no usable handler
	ExitKnownRuntimeError   = 4 // Expected/known runtime error during execution
	ExitUnknownRuntimeError = 5 // Unexpected/unknown runtime error
	ExitWriterSetupError    = 6 // Writer/logger initialization failed
)
