// Command ignitebench drives a sequence of writes and reads against an
// ignite log and reports throughput, matching the basic/batch write
// benchmarks of the system this module's engine was distilled from. It
// is a benchmarking harness only, not a production entrypoint.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/iamNilotpal/ignite/pkg/ignite"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/record"
)

var (
	dataDir     = flag.String("dir", "./ignitebench-data", "Log folder")
	recordSize  = flag.Int("record_size", 128, "Bytes per record payload")
	records     = flag.Int("records", 100000, "Number of records to write")
	batchSize   = flag.Int("batch_size", 1, "Records per WriteBatch call (1 disables batching)")
	filesizeMax = flag.Uint64("filesize_max", 16<<20, "Per-segment byte cap, 0 disables rotation")
	databaseMax = flag.Uint64("database_max", 0, "Total byte cap across segments, 0 disables retention")
)

func encode(w record.Sink, value []byte) error {
	return record.PutBytes(w, value)
}

func decode(r record.Source) ([]byte, error) {
	return record.GetBytes(r)
}

func main() {
	flag.Parse()

	ctx := context.Background()
	log_, status, err := ignite.Open[[]byte](
		ctx, *dataDir, "ignitebench", encode, decode,
		options.WithCreateIfMissing(true),
		options.WithFilesizeMax(*filesizeMax),
		options.WithDatabaseMax(*databaseMax),
	)
	fatalOn(err)
	if status.String() != "OK" {
		log.Fatalf("alert: open returned status %s", status)
	}
	defer log_.Close()

	payload := make([]byte, *recordSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	start := time.Now()
	if *batchSize <= 1 {
		for i := 0; i < *records; i++ {
			_, err := log_.Write(payload)
			fatalOn(err)
		}
	} else {
		batch := make([][]byte, 0, *batchSize)
		for i := 0; i < *records; i++ {
			batch = append(batch, payload)
			if len(batch) == *batchSize {
				_, err := log_.WriteBatch(batch)
				fatalOn(err)
				batch = batch[:0]
			}
		}
		if len(batch) > 0 {
			_, err := log_.WriteBatch(batch)
			fatalOn(err)
		}
	}
	writeElapsed := time.Since(start)

	start = time.Now()
	size := log_.Size()
	for i := uint64(0); i < size; i++ {
		_, err := log_.Read(i)
		fatalOn(err)
	}
	readElapsed := time.Since(start)

	log.Printf("info: wrote %d records (%d bytes each) in %s (%.0f records/sec)",
		*records, *recordSize, writeElapsed, float64(*records)/writeElapsed.Seconds())
	log.Printf("info: read %d records in %s (%.0f records/sec)",
		size, readElapsed, float64(size)/readElapsed.Seconds())
	log.Printf("info: database size on disk: %d bytes across segments [%d, %d]",
		log_.DatabaseSize(), log_.StartSegmentNumber(), log_.ActiveSegmentNumber())
}

func fatalOn(err error) {
	if err != nil {
		log.Fatalf("alert: %s", err)
	}
}
