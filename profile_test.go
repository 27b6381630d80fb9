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
import "testing"

/* -------------------------------------------------------------------------- */

func TestProfile1(t *testing.T) {

  counter := NewKmerCounter(3, 1)
  counter.CountSequence([]byte("ATGATG"))

  profile, err := NewProfileFromCounter("e_coli", Species, counter)
  if err != nil {
    t.Error("TestProfile1 failed")
  }
  if profile.K != 3 {
    t.Error("TestProfile1 failed")
  }
  if profile.TotalKmers != 4 {
    t.Error("TestProfile1 failed")
  }
  if profile.Frequencies["ATG"] != 0.5 {
    t.Error("TestProfile1 failed")
  }
  sum := 0.0
  for _, frequency := range profile.Frequencies {
    sum += frequency
  }
  if math.Abs(sum - 1.0) > 0.01 {
    t.Error("TestProfile1 failed")
  }
}

func TestProfile2(t *testing.T) {

  counter := NewKmerCounter(3, 1)

  // empty counter
  if _, err := NewProfileFromCounter("e_coli", Species, counter); err == nil {
    t.Error("TestProfile2 failed")
  }
  counter.CountSequence([]byte("ATGATG"))

  // empty name
  if _, err := NewProfileFromCounter("", Species, counter); err == nil {
    t.Error("TestProfile2 failed")
  }
}

func TestTaxonomyLevel1(t *testing.T) {

  for _, level := range []TaxonomyLevel{Genus, Species, Strain} {
    parsed, err := ParseTaxonomyLevel(level.String())
    if err != nil {
      t.Error("TestTaxonomyLevel1 failed")
    }
    if parsed != level {
      t.Error("TestTaxonomyLevel1 failed")
    }
  }
  if level, err := ParseTaxonomyLevel("strain"); err != nil || level != Strain {
    t.Error("TestTaxonomyLevel1 failed")
  }
  if _, err := ParseTaxonomyLevel("kingdom"); err == nil {
    t.Error("TestTaxonomyLevel1 failed")
  }
}
