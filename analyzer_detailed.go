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

import "database/sql"
import "math"

/* -------------------------------------------------------------------------- */

// reference frequency above which a k-mer is considered a marker
const markerFrequencyMin = 0.001

/* -------------------------------------------------------------------------- */

// A k-mer present in both sample and reference. UniqueToProfile is set if
// no other stored profile contains this k-mer.
type SharedKmer struct {
  Sequence            string
  SampleFrequency     float64
  ReferenceFrequency  float64
  UniqueToProfile     bool
}

// A k-mer present in only one of sample and reference.
type UniqueKmer struct {
  Sequence  string
  Frequency float64
}

type AnalysisStatistics struct {
  TotalShared                 int
  TotalUniqueReference        int
  TotalUniqueSample           int
  SampleCoverage              float64
  SizeRatio                   float64
  UniquenessScore             float64
  ConfidenceScore             float64
  AverageFrequencyDifference  float64
  MarkerKmerMatches           int
}

// Per-k-mer breakdown of a sample/reference comparison: the union of both
// vocabularies partitioned into shared, reference-only, and sample-only
// k-mers, plus aggregate statistics over the three buckets.
type DetailedAnalysis struct {
  SharedKmers        []SharedKmer
  UniqueToReference  []UniqueKmer
  UniqueToSample     []UniqueKmer
  Statistics         AnalysisStatistics
}

/* -------------------------------------------------------------------------- */

func (obj *DetailedAnalysis) calculateStatistics() {
  shared     := len(obj.SharedKmers)
  sampleOnly := len(obj.UniqueToSample)
  refOnly    := len(obj.UniqueToReference)

  obj.Statistics.TotalShared          = shared
  obj.Statistics.TotalUniqueReference = refOnly
  obj.Statistics.TotalUniqueSample    = sampleOnly

  if shared + sampleOnly > 0 {
    obj.Statistics.SampleCoverage = float64(shared)/float64(shared + sampleOnly)
  }
  if shared + refOnly > 0 {
    obj.Statistics.SizeRatio = float64(shared + sampleOnly)/float64(shared + refOnly)
  }
  totalDiff    := 0.0
  uniqueShared := 0
  for _, kmer := range obj.SharedKmers {
    totalDiff += math.Abs(kmer.SampleFrequency - kmer.ReferenceFrequency)
    if kmer.UniqueToProfile {
      uniqueShared++
    }
    if kmer.ReferenceFrequency >= markerFrequencyMin {
      obj.Statistics.MarkerKmerMatches++
    }
  }
  if shared > 0 {
    obj.Statistics.AverageFrequencyDifference = totalDiff/float64(shared)
    obj.Statistics.UniquenessScore            = float64(uniqueShared)/float64(shared)
  }
  obj.Statistics.ConfidenceScore = confidenceScore(
    obj.Statistics.SampleCoverage,
    obj.Statistics.UniquenessScore,
    obj.Statistics.SizeRatio)
}

/* -------------------------------------------------------------------------- */

// Build the per-k-mer diff between the sample and a named profile. Returns
// nil if no profile of the given name is stored.
func (obj *ProfileAnalyzer) GetDetailedAnalysis(counter *KmerCounter, profileName string) (*DetailedAnalysis, error) {
  var profileId int64
  err := obj.db.QueryRow(
    "SELECT id FROM profiles WHERE name = ?", profileName).Scan(&profileId)
  if err == sql.ErrNoRows {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  owners, err := obj.kmerOwnerCounts()
  if err != nil {
    return nil, err
  }
  rows, err := obj.db.Query(
    "SELECT kmer, frequency FROM kmers WHERE profile_id = ?", profileId)
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  sampleKmers      := counter.GetCounts()
  totalSampleKmers := float64(counter.TotalKmers())

  analysis := DetailedAnalysis{}
  seen     := make(map[string]bool)

  for rows.Next() {
    var kmer    string
    var refFreq float64
    if err := rows.Scan(&kmer, &refFreq); err != nil {
      return nil, err
    }
    if count, ok := sampleKmers[kmer]; ok {
      analysis.SharedKmers = append(analysis.SharedKmers, SharedKmer{
        Sequence          : kmer,
        SampleFrequency   : float64(count)/totalSampleKmers,
        ReferenceFrequency: refFreq,
        UniqueToProfile   : owners[kmer] == 1 })
      seen[kmer] = true
    } else {
      analysis.UniqueToReference = append(analysis.UniqueToReference, UniqueKmer{
        Sequence : kmer,
        Frequency: refFreq })
    }
  }
  if err := rows.Err(); err != nil {
    return nil, err
  }
  for kmer, count := range sampleKmers {
    if !seen[kmer] {
      analysis.UniqueToSample = append(analysis.UniqueToSample, UniqueKmer{
        Sequence : kmer,
        Frequency: float64(count)/totalSampleKmers })
    }
  }
  analysis.calculateStatistics()

  return &analysis, nil
}
