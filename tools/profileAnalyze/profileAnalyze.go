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
import   "io"
import   "log"
import   "os"
import   "sort"
import   "strconv"

import   "github.com/pborman/getopt"

import . "kprofile"

/* -------------------------------------------------------------------------- */

type Config struct {
  Database        string
  KmerSize        int
  Level           TaxonomyLevel
  MinSimilarity   float64
  MinSharedKmers  int
  Detailed        bool
  Threads         int
  Verbose         int
}

/* -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func countSample(config Config, filenames []string) *KmerCounter {
  counter := NewKmerCounter(config.KmerSize, config.Threads)

  PrintStderr(config, 1, "Reading %d sample files... ", len(filenames))
  reader := NewFastxReader(filenames)
  sequences, err := reader.ReadAll()
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")

  if err := counter.CountSequences(sequences); err != nil {
    log.Fatal(err)
  }
  PrintStderr(config, 1, "Found %d unique k-mers in sample\n", counter.UniqueKmers())

  return counter
}

/* -------------------------------------------------------------------------- */

func writeMatches(writer io.Writer, matches []ProfileMatch) {
  fmt.Fprintf(writer, "name\tconfidence\tcoverage\tshared_kmers\tsize_ratio\tuniqueness\n")
  for _, match := range matches {
    fmt.Fprintf(writer, "%s\t%.6f\t%.6f\t%d\t%.6f\t%.6f\n",
      match.Name,
      match.ConfidenceScore,
      match.SampleCoverage,
      match.SharedKmers,
      match.SizeRatio,
      match.UniquenessScore)
  }
}

func writeDetails(writer io.Writer, analyzer *ProfileAnalyzer, counter *KmerCounter, matches []ProfileMatch) {
  for _, match := range matches {
    analysis, err := analyzer.GetDetailedAnalysis(counter, match.Name)
    if err != nil {
      log.Fatal(err)
    }
    if analysis == nil {
      continue
    }
    fmt.Fprintf(writer, "\n# Detailed analysis for %s\n", match.Name)
    fmt.Fprintf(writer, "metric\tvalue\n")
    fmt.Fprintf(writer, "total_shared\t%d\n",         analysis.Statistics.TotalShared)
    fmt.Fprintf(writer, "unique_to_reference\t%d\n",  analysis.Statistics.TotalUniqueReference)
    fmt.Fprintf(writer, "unique_to_sample\t%d\n",     analysis.Statistics.TotalUniqueSample)
    fmt.Fprintf(writer, "sample_coverage\t%.6f\n",    analysis.Statistics.SampleCoverage)
    fmt.Fprintf(writer, "size_ratio\t%.6f\n",         analysis.Statistics.SizeRatio)
    fmt.Fprintf(writer, "uniqueness\t%.6f\n",         analysis.Statistics.UniquenessScore)
    fmt.Fprintf(writer, "confidence\t%.6f\n",         analysis.Statistics.ConfidenceScore)
    fmt.Fprintf(writer, "avg_frequency_diff\t%.6f\n", analysis.Statistics.AverageFrequencyDifference)
    fmt.Fprintf(writer, "marker_matches\t%d\n",       analysis.Statistics.MarkerKmerMatches)

    shared := analysis.SharedKmers
    sort.Slice(shared, func(i, j int) bool {
      return shared[i].SampleFrequency > shared[j].SampleFrequency
    })
    fmt.Fprintf(writer, "\n# Top shared k-mers\n")
    fmt.Fprintf(writer, "kmer\tsample_freq\tref_freq\tunique_to_profile\n")
    for i := 0; i < len(shared) && i < 10; i++ {
      fmt.Fprintf(writer, "%s\t%.6f\t%.6f\t%t\n",
        shared[i].Sequence,
        shared[i].SampleFrequency,
        shared[i].ReferenceFrequency,
        shared[i].UniqueToProfile)
    }
  }
}

/* -------------------------------------------------------------------------- */

func analyze(config Config, filenames []string, filenameOut string) {
  analyzer, err := NewProfileAnalyzer(config.Database, config.MinSimilarity, config.MinSharedKmers, config.Level)
  if err != nil {
    log.Fatal(err)
  }
  defer analyzer.Close()

  counter := countSample(config, filenames)

  PrintStderr(config, 1, "Analyzing sample against reference profiles at %s level... ", config.Level)
  matches, err := analyzer.AnalyzeSample(counter)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  PrintStderr(config, 1, "Found %d potential matches\n", len(matches))

  var writer io.Writer

  if filenameOut == "" {
    writer = os.Stdout
  } else {
    f, err := os.Create(filenameOut)
    if err != nil {
      log.Fatal(err)
    }
    buffer := bufio.NewWriter(f)
    writer  = buffer
    defer f.Close()
    defer buffer.Flush()
  }
  writeMatches(writer, matches)

  if config.Detailed {
    writeDetails(writer, analyzer, counter, matches)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optDatabase       := options. StringLong("database",         'd', "profiles.db", "path to the profile database [default: profiles.db]")
  optKmerSize       := options.    IntLong("kmer-size",        'k',  31,           "k-mer size [default: 31]")
  optLevel          := options. StringLong("level",            'l', "species",     "taxonomy level (genus, species, or strain) [default: species]")
  optMinSimilarity  := options. StringLong("min-similarity",    0 , "0.80",        "minimum sample coverage in [0, 1] [default: 0.80]")
  optMinSharedKmers := options.    IntLong("min-shared-kmers",  0 ,  100,          "minimum number of shared k-mers [default: 100]")
  optDetailed       := options.   BoolLong("detailed",          0 ,               "append a detailed per-match report")
  optOutput         := options. StringLong("output",           'o', "",            "output file [default: stdout]")
  optThreads        := options.    IntLong("threads",          't',  1,            "number of threads [default: 1]")
  optVerbose        := options.CounterLong("verbose",          'v',                "verbose level [-v or -vv]")
  optHelp           := options.   BoolLong("help",             'h',                "print help")

  options.SetParameters("<INPUT.fasta/.fastq> [<INPUT.fasta/.fastq>...]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) < 1 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  level, err := ParseTaxonomyLevel(*optLevel)
  if err != nil {
    log.Fatal(err)
  }
  minSimilarity, err := strconv.ParseFloat(*optMinSimilarity, 64)
  if err != nil {
    log.Fatalf("parsing option `min-similarity' failed: %v", err)
  }
  if minSimilarity < 0.0 {
    log.Fatal("option `min-similarity' must be non-negative")
  }
  if *optKmerSize < 1 {
    log.Fatal("k-mer size must be positive")
  }
  config.Database       = *optDatabase
  config.KmerSize       = *optKmerSize
  config.Level          =  level
  config.MinSimilarity  =  minSimilarity
  config.MinSharedKmers = *optMinSharedKmers
  config.Detailed       = *optDetailed
  config.Threads        = *optThreads
  config.Verbose        = *optVerbose

  analyze(config, options.Args(), *optOutput)
}
