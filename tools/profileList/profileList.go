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

type Config struct {
  Database string
  Detailed bool
  Verbose  int
}

/* -------------------------------------------------------------------------- */

func printTopKmers(db *ProfileDB, name string) {
  profile, err := db.GetProfile(name)
  if err != nil {
    log.Fatal(err)
  }
  if profile == nil {
    return
  }
  type kmerFreq struct {
    kmer      string
    frequency float64
  }
  kmers := []kmerFreq{}
  for kmer, frequency := range profile.Frequencies {
    kmers = append(kmers, kmerFreq{kmer, frequency})
  }
  sort.Slice(kmers, func(i, j int) bool {
    return kmers[i].frequency > kmers[j].frequency
  })
  fmt.Printf("\n# Top k-mers for %s\n", name)
  fmt.Printf("kmer\tfrequency\n")
  for i := 0; i < len(kmers) && i < 5; i++ {
    fmt.Printf("%s\t%.6f\n", kmers[i].kmer, kmers[i].frequency)
  }
  fmt.Println()
}

func listProfiles(config Config, level *TaxonomyLevel) {
  db, err := OpenProfileDB(config.Database)
  if err != nil {
    log.Fatal(err)
  }
  defer db.Close()

  profiles, err := db.ListProfiles(level)
  if err != nil {
    log.Fatal(err)
  }
  fmt.Printf("name\tlevel\tk_size\ttotal_kmers\tcreated_at\n")
  for _, profile := range profiles {
    fmt.Printf("%s\t%s\t%d\t%d\t%s\n",
      profile.Name,
      profile.Level,
      profile.K,
      profile.TotalKmers,
      profile.CreatedAt)

    if config.Detailed {
      printTopKmers(db, profile.Name)
    }
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optDatabase := options. StringLong("database", 'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optLevel    := options. StringLong("level",    'l', "",            "filter by taxonomy level (genus, species, or strain)")
  optDetailed := options.   BoolLong("detailed",  0 ,               "print top k-mers for each profile")
  optVerbose  := options.CounterLong("verbose",  'v',               "verbose level [-v or -vv]")
  optHelp     := options.   BoolLong("help",     'h',               "print help")

  options.SetParameters("")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  var level *TaxonomyLevel

  if *optLevel != "" {
    l, err := ParseTaxonomyLevel(*optLevel)
    if err != nil {
      log.Fatal(err)
    }
    level = &l
  }
  config.Database = *optDatabase
  config.Detailed = *optDetailed
  config.Verbose  = *optVerbose

  listProfiles(config, level)
}
