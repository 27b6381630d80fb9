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

// A Kmer is a window of fixed width cut from a nucleotide sequence. Two
// k-mers are equal if and only if their raw bytes are equal, i.e. no
// reverse complement folding is performed.
type Kmer string

/* -------------------------------------------------------------------------- */

func NewKmer(window []byte) Kmer {
  return Kmer(window)
}

func (obj Kmer) Len() int {
  return len(obj)
}

func (obj Kmer) String() string {
  return string(obj)
}
