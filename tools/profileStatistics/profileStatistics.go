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

import   "fmt"
import   "log"
import   "os"
import   "sort"

import   "github.com/pborman/getopt"

import . "kprofile"

/* -------------------------------------------------------------------------- */

func printStatistics(database string) {
  db, err := OpenProfileDB(database)
  if err != nil {
    log.Fatal(err)
  }
  defer db.Close()

  statistics, err := db.Statistics()
  if err != nil {
    log.Fatal(err)
  }
  fmt.Printf("metric\tvalue\n")
  fmt.Printf("total_profiles\t%d\n", statistics.TotalProfiles)
  fmt.Printf("total_kmers\t%d\n",    statistics.TotalKmers)

  levels := []string{}
  for level := range statistics.ProfilesByLevel {
    levels = append(levels, level)
  }
  sort.Strings(levels)

  fmt.Printf("\n# Profiles by level\n")
  fmt.Printf("level\tcount\n")
  for _, level := range levels {
    fmt.Printf("%s\t%d\n", level, statistics.ProfilesByLevel[level])
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  options := getopt.New()

  optDatabase := options. StringLong("database", 'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optHelp     := options.   BoolLong("help",     'h',               "print help")

  options.SetParameters("")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  printStatistics(*optDatabase)
}
