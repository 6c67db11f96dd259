package playdump

import "io"

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `playdump
========

Loads one game's plays through the provider pipeline and prints them in
the normalized shape.

Usage:
  playdump -game <id> [options]

Options:
  -game string         Game id as understood by the providers (required)
  -season string       Season year, e.g. 2024
  -week int            Week number
  -season-type string  regular, preseason or postseason
  -date string         Game date, YYYY-MM-DD or RFC3339
  -status string       pre_game, in_progress or complete
  -home string         Home team abbreviation
  -away string         Away team abbreviation
  -providers string    Comma separated provider order (default from config)
  -json                Print plays as JSON
  -timeout duration    Overall timeout (default 1m0s)

Provider credentials and endpoints come from HUDDLE_* environment
variables or the file named by HUDDLE_CONFIG.

Examples:
  playdump -game 18821 -providers sportsdataio
  playdump -game 401671789 -providers pyespn,sportsdataio -json
  playdump -game 401671789 -season 2024 -week 5 -home DET -away CHI -providers sleeper
`)
}
