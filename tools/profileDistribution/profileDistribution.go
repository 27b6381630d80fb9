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

import   "github.com/pborman/getopt"

import   "gonum.org/v1/plot"
import   "gonum.org/v1/plot/plotter"
import   "gonum.org/v1/plot/vg"

import . "kprofile"

/* -------------------------------------------------------------------------- */

type Config struct {
  Database string
  Bins     int
  Verbose  int
}

/* -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func plotDistribution(config Config, name, filenameOut string) {
  db, err := OpenProfileDB(config.Database)
  if err != nil {
    log.Fatal(err)
  }
  defer db.Close()

  profile, err := db.GetProfile(name)
  if err != nil {
    log.Fatal(err)
  }
  if profile == nil {
    log.Fatalf("profile `%s' not found", name)
  }
  values := make(plotter.Values, 0, len(profile.Frequencies))
  for _, frequency := range profile.Frequencies {
    values = append(values, frequency)
  }
  p := plot.New()
  p.Title.Text   = name
  p.X.Label.Text = "k-mer frequency"
  p.Y.Label.Text = "count"

  histogram, err := plotter.NewHist(values, config.Bins)
  if err != nil {
    log.Fatal(err)
  }
  p.Add(histogram)

  if err := p.Save(8*vg.Inch, 4*vg.Inch, filenameOut); err != nil {
    log.Fatal(err)
  }
  PrintStderr(config, 1, "Wrote k-mer frequency distribution to `%s'\n", filenameOut)
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optDatabase := options. StringLong("database", 'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optBins     := options.    IntLong("bins",     'b',  50,           "number of histogram bins [default: 50]")
  optVerbose  := options.CounterLong("verbose",  'v',               "verbose level [-v or -vv]")
  optHelp     := options.   BoolLong("help",     'h',               "print help")

  options.SetParameters("<NAME> <OUTPUT.pdf>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  if *optBins < 1 {
    log.Fatal("number of bins must be positive")
  }
  config.Database = *optDatabase
  config.Bins     = *optBins
  config.Verbose  = *optVerbose

  plotDistribution(config, options.Args()[0], options.Args()[1])
}
