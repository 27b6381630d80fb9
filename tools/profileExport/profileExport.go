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
import   "path/filepath"
import   "sort"

import   "github.com/pborman/getopt"

import . "kprofile"

/* -------------------------------------------------------------------------- */

type Config struct {
  Database string
  Format   string
  Verbose  int
}

/* -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

type kmerFreq struct {
  kmer      string
  frequency float64
}

func sortedKmers(profile *Profile) []kmerFreq {
  kmers := []kmerFreq{}
  for kmer, frequency := range profile.Frequencies {
    kmers = append(kmers, kmerFreq{kmer, frequency})
  }
  sort.Slice(kmers, func(i, j int) bool {
    return kmers[i].frequency > kmers[j].frequency
  })
  return kmers
}

func exportProfile(config Config, profile *Profile, dirname string) {
  filename := filepath.Join(dirname, fmt.Sprintf("%s.%s", profile.Name, config.Format))

  f, err := os.Create(filename)
  if err != nil {
    log.Fatal(err)
  }
  defer f.Close()

  writer := bufio.NewWriter(f)
  defer writer.Flush()

  switch config.Format {
  case "fasta":
    for _, entry := range sortedKmers(profile) {
      fmt.Fprintf(writer, ">%s %.6f\n", profile.Name, entry.frequency)
      fmt.Fprintf(writer, "%s\n", entry.kmer)
    }
  case "tsv":
    fmt.Fprintf(writer, "kmer\tfrequency\n")
    for _, entry := range sortedKmers(profile) {
      fmt.Fprintf(writer, "%s\t%.6f\n", entry.kmer, entry.frequency)
    }
  }
  PrintStderr(config, 1, "Exported profile `%s' to `%s'\n", profile.Name, filename)
}

func exportProfiles(config Config, names []string, dirname string) {
  db, err := OpenProfileDB(config.Database)
  if err != nil {
    log.Fatal(err)
  }
  defer db.Close()

  if err := os.MkdirAll(dirname, 0777); err != nil {
    log.Fatal(err)
  }
  // export all stored profiles if none were named
  if len(names) == 0 {
    summaries, err := db.ListProfiles(nil)
    if err != nil {
      log.Fatal(err)
    }
    for _, summary := range summaries {
      names = append(names, summary.Name)
    }
  }
  for _, name := range names {
    profile, err := db.GetProfile(name)
    if err != nil {
      log.Fatal(err)
    }
    if profile == nil {
      fmt.Fprintf(os.Stderr, "Profile `%s' not found\n", name)
      continue
    }
    exportProfile(config, profile, dirname)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optDatabase := options. StringLong("database", 'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optOutput   := options. StringLong("output",   'o', ".",           "output directory [default: .]")
  optFormat   := options. StringLong("format",   'f', "fasta",       "export format (fasta or tsv) [default: fasta]")
  optVerbose  := options.CounterLong("verbose",  'v',               "verbose level [-v or -vv]")
  optHelp     := options.   BoolLong("help",     'h',               "print help")

  options.SetParameters("[<NAME>...]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if *optFormat != "fasta" && *optFormat != "tsv" {
    log.Fatalf("invalid export format `%s'", *optFormat)
  }
  config.Database = *optDatabase
  config.Format   = *optFormat
  config.Verbose  = *optVerbose

  exportProfiles(config, options.Args(), *optOutput)
}
