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

package kprofile

/* -------------------------------------------------------------------------- */

import "math"
import "path/filepath"
import "testing"

/* -------------------------------------------------------------------------- */

func setupAnalyzerDB(t *testing.T) string {
  filename := filepath.Join(t.TempDir(), "profiles.db")

  db, err := OpenProfileDB(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer db.Close()

  refA := NewProfile("RefA", Species, 4)
  refA.Frequencies["AAAA"] = 0.5
  refA.Frequencies["TTTT"] = 0.5
  refA.TotalKmers = 2

  refB := NewProfile("RefB", Species, 4)
  refB.Frequencies["ATGC"] = 0.25
  refB.Frequencies["TGCA"] = 0.25
  refB.Frequencies["GCAT"] = 0.25
  refB.Frequencies["AAAA"] = 0.25
  refB.TotalKmers = 4

  refGenus := NewProfile("RefGenus", Genus, 4)
  refGenus.Frequencies["AAAA"] = 1.0
  refGenus.TotalKmers = 1

  refK3 := NewProfile("RefK3", Species, 3)
  refK3.Frequencies["AAA"] = 1.0
  refK3.TotalKmers = 1

  for _, profile := range []*Profile{refA, refB, refGenus, refK3} {
    if err := db.AddProfile(profile); err != nil {
      t.Fatal(err)
    }
  }
  return filename
}

func sampleCounter(sequence string, k int) *KmerCounter {
  counter := NewKmerCounter(k, 1)
  counter.CountSequence([]byte(sequence))
  return counter
}

/* -------------------------------------------------------------------------- */

func TestProfileAnalyzer1(t *testing.T) {

  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 0.0, 0, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  // sample k-mers: AAAA, AAAT, AATT, ATTT, TTTT
  matches, err := analyzer.AnalyzeSample(sampleCounter("AAAATTTT", 4))
  if err != nil {
    t.Fatal(err)
  }
  // with zero thresholds every same-k profile at the species level is
  // returned; RefGenus and RefK3 are excluded
  if len(matches) != 2 {
    t.Fatal("TestProfileAnalyzer1 failed")
  }
  // RefB: coverage 1/5, uniqueness 0, size symmetry 0.75
  // RefA: coverage 2/5, uniqueness 1/2, size symmetry 0
  if matches[0].Name != "RefB" || matches[1].Name != "RefA" {
    t.Error("TestProfileAnalyzer1 failed")
  }
  refA := matches[1]
  if refA.SharedKmers != 2 {
    t.Error("TestProfileAnalyzer1 failed")
  }
  if math.Abs(refA.SampleCoverage  - 0.4) > 1e-12 {
    t.Error("TestProfileAnalyzer1 failed")
  }
  if math.Abs(refA.SizeRatio       - 2.5) > 1e-12 {
    t.Error("TestProfileAnalyzer1 failed")
  }
  if math.Abs(refA.UniquenessScore - 0.5) > 1e-12 {
    t.Error("TestProfileAnalyzer1 failed")
  }
  if math.Abs(refA.ConfidenceScore - 0.3) > 1e-12 {
    t.Error("TestProfileAnalyzer1 failed")
  }
}

func TestProfileAnalyzer2(t *testing.T) {

  // an unreachable similarity threshold rejects every profile
  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 1.01, 0, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  matches, err := analyzer.AnalyzeSample(sampleCounter("AAAATTTT", 4))
  if err != nil {
    t.Fatal(err)
  }
  if len(matches) != 0 {
    t.Error("TestProfileAnalyzer2 failed")
  }
}

func TestProfileAnalyzer3(t *testing.T) {

  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 0.0, 0, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  // no stored species profile was counted with k = 5
  matches, err := analyzer.AnalyzeSample(sampleCounter("AAAATTTT", 5))
  if err != nil {
    t.Fatal(err)
  }
  if len(matches) != 0 {
    t.Error("TestProfileAnalyzer3 failed")
  }
}

func TestProfileAnalyzer4(t *testing.T) {

  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 0.0, 1, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  // sample k-mers AAAT, AATT, ATTT share nothing with any stored profile
  matches, err := analyzer.AnalyzeSample(sampleCounter("AAATTT", 4))
  if err != nil {
    t.Fatal(err)
  }
  if len(matches) != 0 {
    t.Error("TestProfileAnalyzer4 failed")
  }
}

func TestProfileAnalyzer5(t *testing.T) {

  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 0.0, 0, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  count, err := analyzer.GetProfileKmerCount("RefA")
  if err != nil {
    t.Fatal(err)
  }
  if count != 2 {
    t.Error("TestProfileAnalyzer5 failed")
  }
  if _, err := analyzer.GetProfileKmerCount("NoSuchProfile"); err == nil {
    t.Error("TestProfileAnalyzer5 failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestDetailedAnalysis1(t *testing.T) {

  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 0.0, 0, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  counter := sampleCounter("AAAATTTT", 4)

  analysis, err := analyzer.GetDetailedAnalysis(counter, "RefA")
  if err != nil {
    t.Fatal(err)
  }
  if analysis == nil {
    t.Fatal("TestDetailedAnalysis1 failed")
  }
  if len(analysis.SharedKmers) != 2 {
    t.Fatal("TestDetailedAnalysis1 failed")
  }
  if len(analysis.UniqueToReference) != 0 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if len(analysis.UniqueToSample) != 3 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  for _, kmer := range analysis.SharedKmers {
    // every sample window occurred once out of five
    if math.Abs(kmer.SampleFrequency    - 0.2) > 1e-12 {
      t.Error("TestDetailedAnalysis1 failed")
    }
    if math.Abs(kmer.ReferenceFrequency - 0.5) > 1e-12 {
      t.Error("TestDetailedAnalysis1 failed")
    }
    // AAAA also occurs in RefB and RefGenus, TTTT only in RefA
    switch kmer.Sequence {
    case "AAAA":
      if kmer.UniqueToProfile {
        t.Error("TestDetailedAnalysis1 failed")
      }
    case "TTTT":
      if !kmer.UniqueToProfile {
        t.Error("TestDetailedAnalysis1 failed")
      }
    default:
      t.Error("TestDetailedAnalysis1 failed")
    }
  }
  statistics := analysis.Statistics

  if statistics.TotalShared != 2 || statistics.TotalUniqueReference != 0 || statistics.TotalUniqueSample != 3 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if math.Abs(statistics.SampleCoverage  - 0.4) > 1e-12 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if math.Abs(statistics.SizeRatio       - 2.5) > 1e-12 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if math.Abs(statistics.UniquenessScore - 0.5) > 1e-12 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if math.Abs(statistics.ConfidenceScore - 0.3) > 1e-12 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if math.Abs(statistics.AverageFrequencyDifference - 0.3) > 1e-12 {
    t.Error("TestDetailedAnalysis1 failed")
  }
  if statistics.MarkerKmerMatches != 2 {
    t.Error("TestDetailedAnalysis1 failed")
  }
}

func TestDetailedAnalysis2(t *testing.T) {

  analyzer, err := NewProfileAnalyzer(setupAnalyzerDB(t), 0.0, 0, Species)
  if err != nil {
    t.Fatal(err)
  }
  defer analyzer.Close()

  analysis, err := analyzer.GetDetailedAnalysis(sampleCounter("AAAATTTT", 4), "NoSuchProfile")
  if err != nil {
    t.Fatal(err)
  }
  if analysis != nil {
    t.Error("TestDetailedAnalysis2 failed")
  }
}
