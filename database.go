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
import "errors"
import "fmt"

import _ "github.com/mattn/go-sqlite3"

/* -------------------------------------------------------------------------- */

// Returned wrapped by AddProfile if a profile of the same name is already
// stored, so that callers can implement skip-on-exists semantics.
var ErrProfileExists = errors.New("profile already exists")

/* -------------------------------------------------------------------------- */

// A ProfileDB stores reference profiles in a single SQLite file. Profiles
// are append-only: they are created or removed, never edited in place.
type ProfileDB struct {
  db *sql.DB
}

/* -------------------------------------------------------------------------- */

func initializeSchema(db *sql.DB) error {
  statements := []string{
    `CREATE TABLE IF NOT EXISTS profiles (
       id             INTEGER PRIMARY KEY,
       name           TEXT    NOT NULL UNIQUE,
       taxonomy_level TEXT    NOT NULL,
       k              INTEGER NOT NULL,
       total_kmers    INTEGER NOT NULL,
       created_at     TEXT    NOT NULL DEFAULT (datetime('now')))`,
    `CREATE TABLE IF NOT EXISTS kmers (
       profile_id INTEGER,
       kmer       TEXT NOT NULL,
       frequency  REAL NOT NULL,
       FOREIGN KEY(profile_id) REFERENCES profiles(id),
       PRIMARY KEY(profile_id, kmer))`,
    `CREATE INDEX IF NOT EXISTS idx_kmers_profile
       ON kmers(profile_id)`,
    `CREATE INDEX IF NOT EXISTS idx_profiles_taxonomy
       ON profiles(taxonomy_level)` }

  for _, statement := range statements {
    if _, err := db.Exec(statement); err != nil {
      return err
    }
  }
  return nil
}

// Open the profile database at the given path, creating the file and the
// schema if they do not exist yet.
func OpenProfileDB(filename string) (*ProfileDB, error) {
  db, err := sql.Open("sqlite3", filename)
  if err != nil {
    return nil, fmt.Errorf("opening profile database `%s' failed: %v", filename, err)
  }
  if err := db.Ping(); err != nil {
    db.Close()
    return nil, fmt.Errorf("opening profile database `%s' failed: %v", filename, err)
  }
  if err := initializeSchema(db); err != nil {
    db.Close()
    return nil, fmt.Errorf("initializing schema of `%s' failed: %v", filename, err)
  }
  return &ProfileDB{db}, nil
}

func (obj *ProfileDB) Close() error {
  return obj.db.Close()
}

/* -------------------------------------------------------------------------- */

func (obj *ProfileDB) profileId(name string) (int64, bool, error) {
  var id int64
  err := obj.db.QueryRow(
    "SELECT id FROM profiles WHERE name = ?", name).Scan(&id)
  if err == sql.ErrNoRows {
    return 0, false, nil
  }
  if err != nil {
    return 0, false, err
  }
  return id, true, nil
}

/* -------------------------------------------------------------------------- */

// Store a profile, i.e. its header row and all of its k-mer rows, in a
// single transaction.
func (obj *ProfileDB) AddProfile(profile *Profile) error {
  if _, ok, err := obj.profileId(profile.Name); err != nil {
    return err
  } else
  if ok {
    return fmt.Errorf("profile `%s': %w", profile.Name, ErrProfileExists)
  }
  tx, err := obj.db.Begin()
  if err != nil {
    return err
  }
  result, err := tx.Exec(
    "INSERT INTO profiles (name, taxonomy_level, k, total_kmers) VALUES (?, ?, ?, ?)",
    profile.Name, profile.Level.String(), profile.K, profile.TotalKmers)
  if err != nil {
    tx.Rollback()
    return err
  }
  id, err := result.LastInsertId()
  if err != nil {
    tx.Rollback()
    return err
  }
  stmt, err := tx.Prepare(
    "INSERT INTO kmers (profile_id, kmer, frequency) VALUES (?, ?, ?)")
  if err != nil {
    tx.Rollback()
    return err
  }
  for kmer, frequency := range profile.Frequencies {
    if _, err := stmt.Exec(id, kmer, frequency); err != nil {
      stmt.Close()
      tx.Rollback()
      return err
    }
  }
  stmt.Close()

  return tx.Commit()
}

// Retrieve a profile together with its full frequency table. Returns nil
// if no profile of the given name is stored.
func (obj *ProfileDB) GetProfile(name string) (*Profile, error) {
  var levelStr   string
  var k          int
  var totalKmers int

  err := obj.db.QueryRow(
    "SELECT taxonomy_level, k, total_kmers FROM profiles WHERE name = ?",
    name).Scan(&levelStr, &k, &totalKmers)
  if err == sql.ErrNoRows {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  level, err := ParseTaxonomyLevel(levelStr)
  if err != nil {
    return nil, fmt.Errorf("profile `%s': %v", name, err)
  }
  profile := NewProfile(name, level, k)
  profile.TotalKmers = totalKmers

  rows, err := obj.db.Query(
    "SELECT kmer, frequency FROM kmers WHERE profile_id = (SELECT id FROM profiles WHERE name = ?)",
    name)
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  for rows.Next() {
    var kmer      string
    var frequency float64
    if err := rows.Scan(&kmer, &frequency); err != nil {
      return nil, err
    }
    profile.Frequencies[kmer] = frequency
  }
  if err := rows.Err(); err != nil {
    return nil, err
  }
  return profile, nil
}

// List stored profiles ordered by name, optionally restricted to one
// taxonomy level.
func (obj *ProfileDB) ListProfiles(level *TaxonomyLevel) ([]ProfileSummary, error) {
  var rows *sql.Rows
  var err    error

  if level == nil {
    rows, err = obj.db.Query(
      "SELECT name, taxonomy_level, k, total_kmers, created_at FROM profiles ORDER BY name")
  } else {
    rows, err = obj.db.Query(
      "SELECT name, taxonomy_level, k, total_kmers, created_at FROM profiles WHERE taxonomy_level = ? ORDER BY name",
      level.String())
  }
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  profiles := []ProfileSummary{}
  for rows.Next() {
    var summary  ProfileSummary
    var levelStr string
    if err := rows.Scan(&summary.Name, &levelStr, &summary.K, &summary.TotalKmers, &summary.CreatedAt); err != nil {
      return nil, err
    }
    if summary.Level, err = ParseTaxonomyLevel(levelStr); err != nil {
      return nil, fmt.Errorf("profile `%s': %v", summary.Name, err)
    }
    profiles = append(profiles, summary)
  }
  if err := rows.Err(); err != nil {
    return nil, err
  }
  return profiles, nil
}

// Remove a profile and all of its k-mer rows in a single transaction.
// Returns false if no profile of the given name is stored.
func (obj *ProfileDB) RemoveProfile(name string) (bool, error) {
  id, ok, err := obj.profileId(name)
  if err != nil {
    return false, err
  }
  if !ok {
    return false, nil
  }
  tx, err := obj.db.Begin()
  if err != nil {
    return false, err
  }
  // delete k-mer rows first, they reference the profile row
  if _, err := tx.Exec("DELETE FROM kmers WHERE profile_id = ?", id); err != nil {
    tx.Rollback()
    return false, err
  }
  if _, err := tx.Exec("DELETE FROM profiles WHERE id = ?", id); err != nil {
    tx.Rollback()
    return false, err
  }
  return true, tx.Commit()
}

/* -------------------------------------------------------------------------- */

type DBStatistics struct {
  TotalProfiles    int
  TotalKmers       int
  ProfilesByLevel  map[string]int
}

func (obj *ProfileDB) Statistics() (DBStatistics, error) {
  statistics := DBStatistics{ProfilesByLevel: make(map[string]int)}

  if err := obj.db.QueryRow(
    "SELECT COUNT(*) FROM profiles").Scan(&statistics.TotalProfiles); err != nil {
    return statistics, err
  }
  if err := obj.db.QueryRow(
    "SELECT COUNT(*) FROM kmers").Scan(&statistics.TotalKmers); err != nil {
    return statistics, err
  }
  rows, err := obj.db.Query(
    "SELECT taxonomy_level, COUNT(*) FROM profiles GROUP BY taxonomy_level")
  if err != nil {
    return statistics, err
  }
  defer rows.Close()

  for rows.Next() {
    var level string
    var count int
    if err := rows.Scan(&level, &count); err != nil {
      return statistics, err
    }
    statistics.ProfilesByLevel[level] = count
  }
  return statistics, rows.Err()
}
