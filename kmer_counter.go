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

import "sync"

import "github.com/pbenner/threadpool"

/* -------------------------------------------------------------------------- */

// number of independently locked partitions of the frequency table
const kmerCounterShards = 64

type kmerCounterShard struct {
  mtx    sync.Mutex
  counts map[Kmer]int
}

// A KmerCounter aggregates k-mer frequencies over a set of nucleotide
// sequences. The frequency table is partitioned into independently locked
// shards so that sequences may be counted concurrently. Increments are
// commutative, hence the result does not depend on how sequences are
// distributed across threads.
type KmerCounter struct {
  k       int
  threads int
  shards  [kmerCounterShards]kmerCounterShard
}

/* -------------------------------------------------------------------------- */

func NewKmerCounter(k, threads int) *KmerCounter {
  if k < 1 {
    panic("NewKmerCounter(): k-mer size must be positive")
  }
  if threads < 1 {
    threads = 1
  }
  r := KmerCounter{k: k, threads: threads}
  for i := 0; i < kmerCounterShards; i++ {
    r.shards[i].counts = make(map[Kmer]int)
  }
  return &r
}

/* -------------------------------------------------------------------------- */

func fnv1a(b []byte) uint32 {
  h := uint32(2166136261)
  for i := 0; i < len(b); i++ {
    h ^= uint32(b[i])
    h *= 16777619
  }
  return h
}

/* -------------------------------------------------------------------------- */

// Slide a window of width k over the given sequence and increment the
// count of every window observed. Sequences shorter than k contribute
// nothing. Safe for concurrent use.
func (obj *KmerCounter) CountSequence(sequence []byte) error {
  if len(sequence) < obj.k {
    return nil
  }
  for i := 0; i+obj.k <= len(sequence); i++ {
    window := sequence[i:i+obj.k]
    shard  := &obj.shards[fnv1a(window) % kmerCounterShards]
    shard.mtx.Lock()
    shard.counts[NewKmer(window)]++
    shard.mtx.Unlock()
  }
  return nil
}

// Count k-mers of all given sequences, distributing sequences over the
// thread pool configured at construction.
func (obj *KmerCounter) CountSequences(sequences [][]byte) error {
  pool := threadpool.New(obj.threads, 100*obj.threads)
  jg   := pool.NewJobGroup()

  if err := pool.AddRangeJob(0, len(sequences), jg, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    return obj.CountSequence(sequences[i])
  }); err != nil {
    return err
  }
  return pool.Wait(jg)
}

/* -------------------------------------------------------------------------- */

func (obj *KmerCounter) KmerSize() int {
  return obj.k
}

// Number of distinct k-mers observed so far.
func (obj *KmerCounter) UniqueKmers() int {
  n := 0
  for i := 0; i < kmerCounterShards; i++ {
    shard := &obj.shards[i]
    shard.mtx.Lock()
    n += len(shard.counts)
    shard.mtx.Unlock()
  }
  return n
}

// Total number of k-mers observed so far, including duplicates.
func (obj *KmerCounter) TotalKmers() int {
  n := 0
  for i := 0; i < kmerCounterShards; i++ {
    shard := &obj.shards[i]
    shard.mtx.Lock()
    for _, count := range shard.counts {
      n += count
    }
    shard.mtx.Unlock()
  }
  return n
}

// A point-in-time snapshot of the frequency table.
func (obj *KmerCounter) GetCounts() map[string]int {
  r := make(map[string]int)
  for i := 0; i < kmerCounterShards; i++ {
    shard := &obj.shards[i]
    shard.mtx.Lock()
    for kmer, count := range shard.counts {
      r[kmer.String()] = count
    }
    shard.mtx.Unlock()
  }
  return r
}
