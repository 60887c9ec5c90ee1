// Package logger provides leveled, colored logging for envsync.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()    // Shown with --verbose or --debug
//	Logger.Debugf()   // Shown only with --debug
//	Logger.Warnf()    // Always shown, on stderr
//	Logger.Errorf()   // Always shown, on stderr
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Fetched %d remote items", count)
//
// Out and Err default to os.Stdout and os.Stderr. Tests point them at
// buffers.
package logger
