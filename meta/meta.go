// meta/meta.go
package meta

// NAME is the engine name reported to controllers.
const NAME = "Destiny"

const VERSION = "0.1"

// PROTOCOL_VERSION is the command protocol version spoken by the engine.
const PROTOCOL_VERSION = 2

const BOARD_WIDTH = 9

const KOMI = 7.5

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 1

// ITERATIONS defines the number of search iterations per generated move.
const ITERATIONS = 10000

const SERVER_ADDR = ":8080"

// GAMES defines the number of self-play games per match up.
const GAMES = 10

const RECORDS_DIR = "results"

const LOG_LEVEL = "info"
