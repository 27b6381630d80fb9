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

import "errors"
import "math"
import "path/filepath"
import "testing"

/* -------------------------------------------------------------------------- */

func openTestDB(t *testing.T) *ProfileDB {
  db, err := OpenProfileDB(filepath.Join(t.TempDir(), "profiles.db"))
  if err != nil {
    t.Fatal(err)
  }
  return db
}

func testProfile(name string, level TaxonomyLevel) *Profile {
  profile := NewProfile(name, level, 4)
  profile.Frequencies["AAAA"] = 0.5
  profile.Frequencies["TTTT"] = 0.5
  profile.TotalKmers = 2
  return profile
}

/* -------------------------------------------------------------------------- */

func TestProfileDB1(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  counter := NewKmerCounter(3, 1)
  counter.CountSequence([]byte("ATGATG"))

  profile, err := NewProfileFromCounter("test_species", Species, counter)
  if err != nil {
    t.Fatal(err)
  }
  if err := db.AddProfile(profile); err != nil {
    t.Fatal(err)
  }
  retrieved, err := db.GetProfile("test_species")
  if err != nil {
    t.Fatal(err)
  }
  if retrieved == nil {
    t.Fatal("TestProfileDB1 failed")
  }
  if retrieved.Name != profile.Name {
    t.Error("TestProfileDB1 failed")
  }
  if retrieved.Level != profile.Level {
    t.Error("TestProfileDB1 failed")
  }
  if retrieved.K != profile.K {
    t.Error("TestProfileDB1 failed")
  }
  if retrieved.TotalKmers != profile.TotalKmers {
    t.Error("TestProfileDB1 failed")
  }
  if len(retrieved.Frequencies) != len(profile.Frequencies) {
    t.Error("TestProfileDB1 failed")
  }
  for kmer, frequency := range profile.Frequencies {
    if math.Abs(retrieved.Frequencies[kmer] - frequency) > 1e-12 {
      t.Error("TestProfileDB1 failed")
    }
  }
}

func TestProfileDB2(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  if err := db.AddProfile(testProfile("duplicate", Species)); err != nil {
    t.Fatal(err)
  }
  err := db.AddProfile(testProfile("duplicate", Species))
  if err == nil {
    t.Error("TestProfileDB2 failed")
  }
  if !errors.Is(err, ErrProfileExists) {
    t.Error("TestProfileDB2 failed")
  }
}

func TestProfileDB3(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  if err := db.AddProfile(testProfile("doomed", Species)); err != nil {
    t.Fatal(err)
  }
  removed, err := db.RemoveProfile("doomed")
  if err != nil {
    t.Fatal(err)
  }
  if !removed {
    t.Error("TestProfileDB3 failed")
  }
  if profile, err := db.GetProfile("doomed"); err != nil || profile != nil {
    t.Error("TestProfileDB3 failed")
  }
  // removing a missing profile is reported, not an error
  removed, err = db.RemoveProfile("doomed")
  if err != nil {
    t.Fatal(err)
  }
  if removed {
    t.Error("TestProfileDB3 failed")
  }
  // k-mer rows must be removed along with the profile
  statistics, err := db.Statistics()
  if err != nil {
    t.Fatal(err)
  }
  if statistics.TotalKmers != 0 {
    t.Error("TestProfileDB3 failed")
  }
}

func TestProfileDB4(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  if err := db.AddProfile(testProfile("b_genus",    Genus  )); err != nil {
    t.Fatal(err)
  }
  if err := db.AddProfile(testProfile("a_species",  Species)); err != nil {
    t.Fatal(err)
  }
  if err := db.AddProfile(testProfile("c_species",  Species)); err != nil {
    t.Fatal(err)
  }
  profiles, err := db.ListProfiles(nil)
  if err != nil {
    t.Fatal(err)
  }
  if len(profiles) != 3 {
    t.Error("TestProfileDB4 failed")
  }
  // ordered by name
  if profiles[0].Name != "a_species" || profiles[2].Name != "c_species" {
    t.Error("TestProfileDB4 failed")
  }
  level := Species
  profiles, err = db.ListProfiles(&level)
  if err != nil {
    t.Fatal(err)
  }
  if len(profiles) != 2 {
    t.Error("TestProfileDB4 failed")
  }
  for _, profile := range profiles {
    if profile.Level != Species {
      t.Error("TestProfileDB4 failed")
    }
  }
}

func TestProfileDB5(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  if err := db.AddProfile(testProfile("a", Genus  )); err != nil {
    t.Fatal(err)
  }
  if err := db.AddProfile(testProfile("b", Species)); err != nil {
    t.Fatal(err)
  }
  if err := db.AddProfile(testProfile("c", Species)); err != nil {
    t.Fatal(err)
  }
  statistics, err := db.Statistics()
  if err != nil {
    t.Fatal(err)
  }
  if statistics.TotalProfiles != 3 {
    t.Error("TestProfileDB5 failed")
  }
  if statistics.TotalKmers != 6 {
    t.Error("TestProfileDB5 failed")
  }
  if statistics.ProfilesByLevel["Species"] != 2 {
    t.Error("TestProfileDB5 failed")
  }
  if statistics.ProfilesByLevel["Genus"] != 1 {
    t.Error("TestProfileDB5 failed")
  }
}

func TestProfileDBValidate1(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  if err := db.AddProfile(testProfile("clean", Species)); err != nil {
    t.Fatal(err)
  }
  report, err := db.Validate()
  if err != nil {
    t.Fatal(err)
  }
  if report.HasErrors() || report.HasWarnings() {
    t.Error("TestProfileDBValidate1 failed")
  }
}

func TestProfileDBValidate2(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  // a profile without k-mer rows is a warning, not an error
  empty := NewProfile("empty", Species, 4)
  empty.TotalKmers = 2
  if err := db.AddProfile(empty); err != nil {
    t.Fatal(err)
  }
  report, err := db.Validate()
  if err != nil {
    t.Fatal(err)
  }
  if report.HasErrors() {
    t.Error("TestProfileDBValidate2 failed")
  }
  if !report.HasWarnings() {
    t.Error("TestProfileDBValidate2 failed")
  }
}

func TestProfileDBValidate3(t *testing.T) {

  db := openTestDB(t)
  defer db.Close()

  // frequencies summing to 0.4 violate the normalization invariant
  skewed := NewProfile("skewed", Species, 4)
  skewed.Frequencies["AAAA"] = 0.4
  skewed.TotalKmers = 5
  if err := db.AddProfile(skewed); err != nil {
    t.Fatal(err)
  }
  report, err := db.Validate()
  if err != nil {
    t.Fatal(err)
  }
  if !report.HasErrors() {
    t.Error("TestProfileDBValidate3 failed")
  }
}
