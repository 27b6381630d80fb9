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

import "bufio"
import "bytes"
import "compress/gzip"
import "fmt"
import "io"
import "log"
import "os"
import "strings"
import "unicode"

/* -------------------------------------------------------------------------- */

// Reader for FASTA and FASTQ files, plain or gzipped. Sequences are upper
// cased; records containing characters outside the four-letter nucleotide
// alphabet are skipped and counted, they never reach the k-mer counter.
type FastxReader struct {
  Files []string
}

/* -------------------------------------------------------------------------- */

func NewFastxReader(files []string) FastxReader {
  return FastxReader{Files: files}
}

/* -------------------------------------------------------------------------- */

// Apply the callback to every valid sequence of all input files.
func (obj FastxReader) ProcessAll(callback func(name string, sequence []byte) error) error {
  for _, filename := range obj.Files {
    if err := obj.processFile(filename, callback); err != nil {
      return fmt.Errorf("processing file `%s' failed: %v", filename, err)
    }
  }
  return nil
}

// Read all valid sequences of all input files into memory.
func (obj FastxReader) ReadAll() ([][]byte, error) {
  sequences := [][]byte{}
  err := obj.ProcessAll(func(name string, sequence []byte) error {
    sequences = append(sequences, sequence)
    return nil
  })
  return sequences, err
}

/* -------------------------------------------------------------------------- */

func (obj FastxReader) processFile(filename string, callback func(name string, sequence []byte) error) error {
  var reader io.Reader

  f, err := os.Open(filename)
  if err != nil {
    return err
  }
  defer f.Close()

  // check if file is gzipped
  if isGzip(filename) {
    g, err := gzip.NewReader(f)
    if err != nil {
      return err
    }
    defer g.Close()
    reader = g
  } else {
    reader = f
  }
  buffered := bufio.NewReader(reader)

  // the first letter of the first record decides the format
  first, err := buffered.Peek(1)
  if err == io.EOF {
    return nil
  }
  if err != nil {
    return err
  }
  switch first[0] {
  case '>':
    return obj.readFasta(filename, buffered, callback)
  case '@':
    return obj.readFastq(filename, buffered, callback)
  default:
    return fmt.Errorf("file does not look like fasta or fastq")
  }
}

func newSequenceScanner(reader io.Reader) *bufio.Scanner {
  scanner := bufio.NewScanner(reader)
  // fastq stores one read per line, which may exceed the default
  // token size for long read data
  scanner.Buffer(make([]byte, 0, 1024*1024), 512*1024*1024)
  return scanner
}

/* -------------------------------------------------------------------------- */

func (obj FastxReader) emit(name string, sequence []byte, invalid *int, callback func(string, []byte) error) error {
  sequence = bytes.ToUpper(sequence)
  if !(NucleotideAlphabet{}).IsValid(sequence) {
    *invalid++
    return nil
  }
  return callback(name, sequence)
}

func (obj FastxReader) readFasta(filename string, reader io.Reader, callback func(string, []byte) error) error {
  scanner := newSequenceScanner(reader)

  // current sequence
  name    := ""
  seq     := []byte{}
  invalid := 0

  for scanner.Scan() {
    line := scanner.Text()
    if len(line) == 0 {
      continue
    }
    if line[0] == '>' {
      // save data from previous entry
      if name != "" {
        if err := obj.emit(name, seq, &invalid, callback); err != nil {
          return err
        }
      }
      // header
      fields := strings.FieldsFunc(line, func(c rune) bool {
        return unicode.IsSpace(c) || c == '>' || c == '|'
      })
      if len(fields) == 0 {
        return fmt.Errorf("invalid fasta file")
      }
      name = fields[0]
      seq  = []byte{}
    } else {
      // data
      if name == "" {
        return fmt.Errorf("invalid fasta file")
      }
      seq = append(seq, line...)
    }
  }
  if err := scanner.Err(); err != nil {
    return err
  }
  if name != "" {
    if err := obj.emit(name, seq, &invalid, callback); err != nil {
      return err
    }
  }
  if invalid > 0 {
    log.Printf("skipped %d sequences with invalid characters in `%s'", invalid, filename)
  }
  return nil
}

func (obj FastxReader) readFastq(filename string, reader io.Reader, callback func(string, []byte) error) error {
  scanner := newSequenceScanner(reader)

  invalid := 0
  for scanner.Scan() {
    header := scanner.Text()
    if len(header) == 0 {
      continue
    }
    if header[0] != '@' {
      return fmt.Errorf("invalid fastq file")
    }
    fields := strings.FieldsFunc(header, func(c rune) bool {
      return unicode.IsSpace(c) || c == '@'
    })
    if len(fields) == 0 {
      return fmt.Errorf("invalid fastq file")
    }
    if !scanner.Scan() {
      return fmt.Errorf("invalid fastq file: truncated record")
    }
    seq := []byte(scanner.Text())
    // separator and quality lines
    if !scanner.Scan() || len(scanner.Text()) == 0 || scanner.Text()[0] != '+' {
      return fmt.Errorf("invalid fastq file: missing separator line")
    }
    if !scanner.Scan() {
      return fmt.Errorf("invalid fastq file: missing quality line")
    }
    if err := obj.emit(fields[0], seq, &invalid, callback); err != nil {
      return err
    }
  }
  if err := scanner.Err(); err != nil {
    return err
  }
  if invalid > 0 {
    log.Printf("skipped %d sequences with invalid characters in `%s'", invalid, filename)
  }
  return nil
}
