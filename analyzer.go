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
import "fmt"
import "log"
import "math"
import "sort"

import _ "github.com/mattn/go-sqlite3"

/* -------------------------------------------------------------------------- */

// One scored candidate profile. All scores lie in [0, 1] except SizeRatio,
// which is the ratio of sample to reference vocabulary size.
type ProfileMatch struct {
  Name            string
  SampleCoverage  float64
  SharedKmers     int
  SizeRatio       float64
  UniquenessScore float64
  ConfidenceScore float64
}

// A ProfileAnalyzer scores a sample's k-mer table against the stored
// reference profiles of one taxonomy level and reports candidates passing
// the configured thresholds.
type ProfileAnalyzer struct {
  db             *sql.DB
  minSimilarity  float64
  minSharedKmers int
  level          TaxonomyLevel
}

/* -------------------------------------------------------------------------- */

func NewProfileAnalyzer(filename string, minSimilarity float64, minSharedKmers int, level TaxonomyLevel) (*ProfileAnalyzer, error) {
  db, err := sql.Open("sqlite3", filename)
  if err != nil {
    return nil, fmt.Errorf("opening profile database `%s' failed: %v", filename, err)
  }
  if err := db.Ping(); err != nil {
    db.Close()
    return nil, fmt.Errorf("opening profile database `%s' failed: %v", filename, err)
  }
  return &ProfileAnalyzer{
    db            : db,
    minSimilarity : minSimilarity,
    minSharedKmers: minSharedKmers,
    level         : level }, nil
}

func (obj *ProfileAnalyzer) Close() error {
  return obj.db.Close()
}

/* -------------------------------------------------------------------------- */

// Unweighted blend of coverage, marker specificity, and vocabulary size
// symmetry. The symmetry term is clamped at zero so that every component
// lies in [0, 1].
func confidenceScore(sampleCoverage, uniquenessScore, sizeRatio float64) float64 {
  symmetry := 1.0 - math.Abs(1.0 - sizeRatio)
  if symmetry < 0.0 {
    symmetry = 0.0
  }
  return (sampleCoverage + uniquenessScore + symmetry)/3.0
}

// Number of profiles owning each stored k-mer, fetched with a single
// aggregate query instead of one round trip per k-mer.
func (obj *ProfileAnalyzer) kmerOwnerCounts() (map[string]int, error) {
  rows, err := obj.db.Query(
    "SELECT kmer, COUNT(DISTINCT profile_id) FROM kmers GROUP BY kmer")
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  owners := make(map[string]int)
  for rows.Next() {
    var kmer  string
    var count int
    if err := rows.Scan(&kmer, &count); err != nil {
      return nil, err
    }
    owners[kmer] = count
  }
  return owners, rows.Err()
}

/* -------------------------------------------------------------------------- */

type profileCandidate struct {
  id   int64
  name string
  k    int
}

// Score the sample against every stored profile of the configured taxonomy
// level and return all candidates passing both thresholds, ordered by
// confidence score, best match first.
func (obj *ProfileAnalyzer) AnalyzeSample(counter *KmerCounter) ([]ProfileMatch, error) {
  rows, err := obj.db.Query(
    "SELECT id, name, k FROM profiles WHERE taxonomy_level = ?", obj.level.String())
  if err != nil {
    return nil, err
  }
  candidates := []profileCandidate{}
  for rows.Next() {
    candidate := profileCandidate{}
    if err := rows.Scan(&candidate.id, &candidate.name, &candidate.k); err != nil {
      rows.Close()
      return nil, err
    }
    candidates = append(candidates, candidate)
  }
  rows.Close()
  if err := rows.Err(); err != nil {
    return nil, err
  }
  matches := []ProfileMatch{}
  if len(candidates) == 0 {
    return matches, nil
  }
  owners, err := obj.kmerOwnerCounts()
  if err != nil {
    return nil, err
  }
  sampleKmers := counter.GetCounts()

  for _, candidate := range candidates {
    if candidate.k != counter.KmerSize() {
      log.Printf("skipping profile `%s' due to k-mer size mismatch (%d vs %d)",
        candidate.name, candidate.k, counter.KmerSize())
      continue
    }
    match, err := obj.compareWithProfile(candidate, sampleKmers, owners)
    if err != nil {
      return nil, err
    }
    if match != nil {
      matches = append(matches, *match)
    }
  }
  sort.Slice(matches, func(i, j int) bool {
    return matches[i].ConfidenceScore > matches[j].ConfidenceScore
  })
  return matches, nil
}

// Compare the sample's k-mer vocabulary with one stored profile; returns
// nil if the profile does not pass the thresholds.
func (obj *ProfileAnalyzer) compareWithProfile(candidate profileCandidate, sampleKmers map[string]int, owners map[string]int) (*ProfileMatch, error) {
  rows, err := obj.db.Query(
    "SELECT kmer FROM kmers WHERE profile_id = ?", candidate.id)
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  profileSize  := 0
  sharedKmers  := 0
  uniqueShared := 0
  for rows.Next() {
    var kmer string
    if err := rows.Scan(&kmer); err != nil {
      return nil, err
    }
    profileSize++
    if _, ok := sampleKmers[kmer]; ok {
      sharedKmers++
      // a shared k-mer is a marker if this profile is its only owner
      if owners[kmer] == 1 {
        uniqueShared++
      }
    }
  }
  if err := rows.Err(); err != nil {
    return nil, err
  }
  sampleSize := len(sampleKmers)

  sampleCoverage := 0.0
  if sampleSize > 0 {
    sampleCoverage = float64(sharedKmers)/float64(sampleSize)
  }
  sizeRatio := 0.0
  if profileSize > 0 {
    sizeRatio = float64(sampleSize)/float64(profileSize)
  }
  uniquenessScore := 0.0
  if sharedKmers > 0 {
    uniquenessScore = float64(uniqueShared)/float64(sharedKmers)
  }
  if sampleCoverage < obj.minSimilarity || sharedKmers < obj.minSharedKmers {
    return nil, nil
  }
  return &ProfileMatch{
    Name           : candidate.name,
    SampleCoverage : sampleCoverage,
    SharedKmers    : sharedKmers,
    SizeRatio      : sizeRatio,
    UniquenessScore: uniquenessScore,
    ConfidenceScore: confidenceScore(sampleCoverage, uniquenessScore, sizeRatio) }, nil
}

/* -------------------------------------------------------------------------- */

// Stored total k-mer count of a named profile.
func (obj *ProfileAnalyzer) GetProfileKmerCount(name string) (int, error) {
  var totalKmers int
  err := obj.db.QueryRow(
    "SELECT total_kmers FROM profiles WHERE name = ?", name).Scan(&totalKmers)
  if err == sql.ErrNoRows {
    return 0, fmt.Errorf("profile `%s' not found", name)
  }
  if err != nil {
    return 0, err
  }
  return totalKmers, nil
}
