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

import "fmt"
import "strings"

/* -------------------------------------------------------------------------- */

// Classification granularity of a reference profile.
type TaxonomyLevel int

const (
  Genus TaxonomyLevel = iota
  Species
  Strain
)

func (obj TaxonomyLevel) String() string {
  switch obj {
  case Genus  : return "Genus"
  case Species: return "Species"
  case Strain : return "Strain"
  default:
    panic("invalid taxonomy level")
  }
}

// Single validation point for taxonomy levels crossing the store or
// command line boundary.
func ParseTaxonomyLevel(s string) (TaxonomyLevel, error) {
  switch strings.ToLower(s) {
  case "genus"  : return Genus  , nil
  case "species": return Species, nil
  case "strain" : return Strain , nil
  default:
    return TaxonomyLevel(-1), fmt.Errorf("invalid taxonomy level `%s'", s)
  }
}

/* -------------------------------------------------------------------------- */

// A Profile is a named reference k-mer fingerprint: the relative frequency
// of every k-mer observed in the reference sequences. Profiles are
// immutable once created, the database is the system of record.
type Profile struct {
  Name         string
  Level        TaxonomyLevel
  K            int
  Frequencies  map[string]float64
  TotalKmers   int
}

// Summary of a profile for listing, without the frequency table.
type ProfileSummary struct {
  Name        string
  Level       TaxonomyLevel
  K           int
  TotalKmers  int
  CreatedAt   string
}

/* -------------------------------------------------------------------------- */

func NewProfile(name string, level TaxonomyLevel, k int) *Profile {
  return &Profile{
    Name       : name,
    Level      : level,
    K          : k,
    Frequencies: make(map[string]float64) }
}

// Create a profile from a snapshot of the given counter. Frequencies are
// normalized by the total k-mer count so that they sum to one.
func NewProfileFromCounter(name string, level TaxonomyLevel, counter *KmerCounter) (*Profile, error) {
  if name == "" {
    return nil, fmt.Errorf("profile name must not be empty")
  }
  total := counter.TotalKmers()
  if total == 0 {
    return nil, fmt.Errorf("cannot create profile `%s' from an empty k-mer counter", name)
  }
  profile := NewProfile(name, level, counter.KmerSize())
  for kmer, count := range counter.GetCounts() {
    profile.Frequencies[kmer] = float64(count)/float64(total)
  }
  profile.TotalKmers = total

  return profile, nil
}
