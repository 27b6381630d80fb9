/* Copyright (C) 2020 Philipp Benner
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

/* -------------------------------------------------------------------------- */

import   "bufio"
import   "fmt"
import   "log"
import   "os"
import   "strings"

import   "github.com/pborman/getopt"

import . "kprofile"

/* -------------------------------------------------------------------------- */

type Config struct {
  Database string
  Force    bool
  Verbose  int
}

/* -------------------------------------------------------------------------- */

func confirmRemoval(name string) bool {
  fmt.Printf("Are you sure you want to remove profile `%s'? [y/N] ", name)

  reader := bufio.NewReader(os.Stdin)
  input, err := reader.ReadString('\n')
  if err != nil {
    return false
  }
  return strings.EqualFold(strings.TrimSpace(input), "y")
}

func removeProfile(config Config, name string) {
  db, err := OpenProfileDB(config.Database)
  if err != nil {
    log.Fatal(err)
  }
  defer db.Close()

  if !config.Force && !confirmRemoval(name) {
    fmt.Fprintf(os.Stderr, "Operation cancelled\n")
    return
  }
  removed, err := db.RemoveProfile(name)
  if err != nil {
    log.Fatal(err)
  }
  if removed {
    fmt.Fprintf(os.Stderr, "Profile `%s' removed\n", name)
  } else {
    fmt.Fprintf(os.Stderr, "Profile `%s' not found\n", name)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optDatabase := options. StringLong("database", 'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optForce    := options.   BoolLong("force",    'f',               "remove without confirmation")
  optVerbose  := options.CounterLong("verbose",  'v',               "verbose level [-v or -vv]")
  optHelp     := options.   BoolLong("help",     'h',               "print help")

  options.SetParameters("<NAME>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 1 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Database = *optDatabase
  config.Force    = *optForce
  config.Verbose  = *optVerbose

  removeProfile(config, options.Args()[0])
}
