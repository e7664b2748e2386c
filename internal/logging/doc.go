// Package logging provides structured logging for the satip-discover tool.
//
// This package wraps the zap logger. The command line front end calls
// Initialize once at startup and hands GetLogger() to the discovery core;
// the core itself only ever uses the *zap.Logger it is given.
//
// # Log Levels
//
//   - Debug: datagram dumps, state transitions, per-server timings
//   - Info: start and end of a discovery run
//   - Warn: discarded replies, unreachable descriptions
//   - Error: fatal discovery failures
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Without an explicit level the SATIP_LOG_LEVEL environment variable is
// consulted; when that is empty too, logging is silent.
//
// # Payload Dumps
//
// PayloadFields renders raw UDP payloads as hex and ASCII (capped at 256
// bytes), which is usually enough to see why a reply was rejected:
//
//	logger.Debug("Received datagram", logging.PayloadFields(buf[:n])...)
package logging
