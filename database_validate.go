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
import "math"
import "strings"

/* -------------------------------------------------------------------------- */

// Result of a database integrity check. Errors denote corrupted or invalid
// data, warnings denote oddities that do not prevent analysis.
type ValidationReport struct {
  errors   []string
  warnings []string
}

func (obj *ValidationReport) addError(format string, args ...interface{}) {
  obj.errors = append(obj.errors, fmt.Sprintf(format, args...))
}

func (obj *ValidationReport) addWarning(format string, args ...interface{}) {
  obj.warnings = append(obj.warnings, fmt.Sprintf(format, args...))
}

func (obj ValidationReport) HasErrors() bool {
  return len(obj.errors) > 0
}

func (obj ValidationReport) HasWarnings() bool {
  return len(obj.warnings) > 0
}

func (obj ValidationReport) Errors() []string {
  return obj.errors
}

func (obj ValidationReport) Warnings() []string {
  return obj.warnings
}

/* -------------------------------------------------------------------------- */

// Check schema, data, and referential integrity of the profile database.
// The returned error covers query failures only, integrity findings are
// collected in the report.
func (obj *ProfileDB) Validate() (ValidationReport, error) {
  report := ValidationReport{}

  if err := obj.validateSchema(&report); err != nil {
    return report, err
  }
  if report.HasErrors() {
    // data checks are meaningless without the expected schema
    return report, nil
  }
  if err := obj.validateData(&report); err != nil {
    return report, err
  }
  if err := obj.validateReferences(&report); err != nil {
    return report, err
  }
  return report, nil
}

func (obj *ProfileDB) validateSchema(report *ValidationReport) error {
  var tables int
  if err := obj.db.QueryRow(
    "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('profiles', 'kmers')").Scan(&tables); err != nil {
    return err
  }
  if tables != 2 {
    report.addError("missing required tables (profiles and/or kmers)")
    return nil
  }
  var profileCols int
  if err := obj.db.QueryRow(
    `SELECT COUNT(*) FROM pragma_table_info('profiles')
      WHERE name IN ('id', 'name', 'taxonomy_level', 'k', 'total_kmers', 'created_at')`).Scan(&profileCols); err != nil {
    return err
  }
  if profileCols != 6 {
    report.addError("profiles table is missing required columns")
  }
  var kmerCols int
  if err := obj.db.QueryRow(
    `SELECT COUNT(*) FROM pragma_table_info('kmers')
      WHERE name IN ('profile_id', 'kmer', 'frequency')`).Scan(&kmerCols); err != nil {
    return err
  }
  if kmerCols != 3 {
    report.addError("kmers table is missing required columns")
  }
  return nil
}

func (obj *ProfileDB) validateData(report *ValidationReport) error {
  // taxonomy levels must be members of the closed enumeration
  rows, err := obj.db.Query(
    "SELECT DISTINCT taxonomy_level FROM profiles WHERE taxonomy_level NOT IN ('Genus', 'Species', 'Strain')")
  if err != nil {
    return err
  }
  invalidLevels := []string{}
  for rows.Next() {
    var level string
    if err := rows.Scan(&level); err != nil {
      rows.Close()
      return err
    }
    invalidLevels = append(invalidLevels, level)
  }
  rows.Close()
  if err := rows.Err(); err != nil {
    return err
  }
  if len(invalidLevels) > 0 {
    report.addError("invalid taxonomy levels found: %s", strings.Join(invalidLevels, ", "))
  }
  // k-mer size and total count must be positive
  var invalidCounts int
  if err := obj.db.QueryRow(
    "SELECT COUNT(*) FROM profiles WHERE k <= 0 OR total_kmers <= 0").Scan(&invalidCounts); err != nil {
    return err
  }
  if invalidCounts > 0 {
    report.addError("found %d profiles with invalid k-mer size or total count", invalidCounts)
  }
  // frequencies must lie in (0, 1]
  var invalidFreqs int
  if err := obj.db.QueryRow(
    "SELECT COUNT(*) FROM kmers WHERE frequency <= 0 OR frequency > 1").Scan(&invalidFreqs); err != nil {
    return err
  }
  if invalidFreqs > 0 {
    report.addError("found %d k-mers with invalid frequencies", invalidFreqs)
  }
  // per-profile frequencies must sum to approximately one
  rows, err = obj.db.Query(
    "SELECT profile_id, SUM(frequency) FROM kmers GROUP BY profile_id")
  if err != nil {
    return err
  }
  defer rows.Close()
  for rows.Next() {
    var profileId int64
    var sum       float64
    if err := rows.Scan(&profileId, &sum); err != nil {
      return err
    }
    if math.Abs(sum - 1.0) > 0.01 {
      report.addError("profile %d has total frequency sum of %f (expected ~1.0)", profileId, sum)
    }
  }
  return rows.Err()
}

func (obj *ProfileDB) validateReferences(report *ValidationReport) error {
  // k-mer rows whose profile row is gone
  var orphaned int
  if err := obj.db.QueryRow(
    `SELECT COUNT(*) FROM kmers
      LEFT JOIN profiles ON kmers.profile_id = profiles.id
      WHERE profiles.id IS NULL`).Scan(&orphaned); err != nil {
    return err
  }
  if orphaned > 0 {
    report.addError("found %d orphaned k-mer entries", orphaned)
  }
  // profiles without any k-mer rows
  rows, err := obj.db.Query(
    `SELECT name FROM profiles
      LEFT JOIN kmers ON profiles.id = kmers.profile_id
      GROUP BY profiles.id HAVING COUNT(kmers.kmer) = 0`)
  if err != nil {
    return err
  }
  defer rows.Close()

  emptyProfiles := []string{}
  for rows.Next() {
    var name string
    if err := rows.Scan(&name); err != nil {
      return err
    }
    emptyProfiles = append(emptyProfiles, name)
  }
  if err := rows.Err(); err != nil {
    return err
  }
  if len(emptyProfiles) > 0 {
    report.addWarning("found profiles with no k-mers: %s", strings.Join(emptyProfiles, ", "))
  }
  return nil
}
