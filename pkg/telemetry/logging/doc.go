// Package logging builds the process-wide structured logger.
//
// It is a thin layer over log/slog: configuration strings from the config
// file (level, format) are parsed once, here, and the rest of the program
// only ever sees a *slog.Logger.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "text"})
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger)
package logging
