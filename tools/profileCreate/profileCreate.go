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

import   "errors"
import   "fmt"
import   "log"
import   "os"

import   "github.com/pborman/getopt"

import . "kprofile"
import   "kprofile/lib/progress"

/* -------------------------------------------------------------------------- */

type Config struct {
  Database     string
  KmerSize     int
  Level        TaxonomyLevel
  SkipExisting bool
  Threads      int
  Verbose      int
}

/* -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func countFiles(config Config, filenames []string) *KmerCounter {
  counter := NewKmerCounter(config.KmerSize, config.Threads)

  for i, filename := range filenames {
    PrintStderr(config, 1, "Reading sequence file `%s'... ", filename)
    reader := NewFastxReader([]string{filename})
    sequences, err := reader.ReadAll()
    if err != nil {
      PrintStderr(config, 1, "failed\n")
      log.Fatal(err)
    }
    PrintStderr(config, 1, "done\n")

    if err := counter.CountSequences(sequences); err != nil {
      log.Fatal(err)
    }
    if config.Verbose >= 1 {
      progress.New(len(filenames), 1000).PrintStderr(i+1)
    }
  }
  return counter
}

func createProfile(config Config, name string, filenames []string) {
  db, err := OpenProfileDB(config.Database)
  if err != nil {
    log.Fatal(err)
  }
  defer db.Close()

  counter := countFiles(config, filenames)

  PrintStderr(config, 1, "Found %d unique k-mers across %d files\n",
    counter.UniqueKmers(), len(filenames))

  profile, err := NewProfileFromCounter(name, config.Level, counter)
  if err != nil {
    log.Fatal(err)
  }
  if err := db.AddProfile(profile); err != nil {
    if errors.Is(err, ErrProfileExists) && config.SkipExisting {
      PrintStderr(config, 1, "Profile `%s' already exists, skipping\n", name)
      return
    }
    log.Fatal(err)
  }
  PrintStderr(config, 1, "Added profile `%s' with %d k-mers to `%s'\n",
    name, len(profile.Frequencies), config.Database)
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optDatabase     := options. StringLong("database",      'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optKmerSize     := options.    IntLong("kmer-size",     'k',  31,           "k-mer size [default: 31]")
  optLevel        := options. StringLong("level",         'l', "species",     "taxonomy level (genus, species, or strain) [default: species]")
  optSkipExisting := options.   BoolLong("skip-existing",  0 ,               "do not fail if the profile already exists")
  optThreads      := options.    IntLong("threads",       't',  1,           "number of threads [default: 1]")
  optVerbose      := options.CounterLong("verbose",       'v',               "verbose level [-v or -vv]")
  optHelp         := options.   BoolLong("help",          'h',               "print help")

  options.SetParameters("<NAME> <INPUT.fasta/.fastq> [<INPUT.fasta/.fastq>...]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) < 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  level, err := ParseTaxonomyLevel(*optLevel)
  if err != nil {
    log.Fatal(err)
  }
  if *optKmerSize < 1 {
    log.Fatal("k-mer size must be positive")
  }
  config.Database     = *optDatabase
  config.KmerSize     = *optKmerSize
  config.Level        =  level
  config.SkipExisting = *optSkipExisting
  config.Threads      = *optThreads
  config.Verbose      = *optVerbose

  name      := options.Args()[0]
  filenames := options.Args()[1:]

  createProfile(config, name, filenames)
}
