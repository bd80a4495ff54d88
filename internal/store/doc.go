// Package store defines the persistence interfaces consumed by the
// application core. Implementations live under internal/platform; the
// engine itself never writes, it only reads the latest session as input.
package store
