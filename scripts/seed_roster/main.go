// Command seed_roster writes a demo masterlist plus empty log files so a
// fresh checkout can run against realistic data.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

var samplePeriods = []string{"1", "2", "3", "4.5", "7.8", "9", "10", "11", "12"}

var sampleNames = []string{
	"Alice Johnson", "Bob Smith", "Carol Davis", "Dan Evans", "Erin Foster",
	"Frank Green", "Grace Harris", "Henry Irving", "Ivy Jackson", "Jack Kim",
	"Karen Lee", "Liam Moore", "Mia Nelson", "Noah Ortiz", "Olivia Price",
}

func main() {
	dir := flag.String("dir", ".", "directory to write data files into")
	count := flag.Int("count", 15, "number of students to generate")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create %s: %v", *dir, err)
	}

	rosterPath := filepath.Join(*dir, "masterlist.csv")
	if err := writeRoster(rosterPath, *count); err != nil {
		log.Fatalf("write roster: %v", err)
	}
	fmt.Printf("wrote %s (%d students)\n", rosterPath, *count)

	for name, content := range map[string]string{
		"passlog.json":  "{}",
		"auditlog.json": "[]",
	} {
		path := filepath.Join(*dir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("kept existing %s\n", path)
			continue
		}
		if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
}

func writeRoster(path string, count int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "Name", "Period"}); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		record := []string{
			strconv.Itoa(100 + i),
			sampleNames[i%len(sampleNames)],
			samplePeriods[i%len(samplePeriods)],
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
