// Command dategen prints the current discovery work-item list as JSON, for
// the orchestrator to fan out over.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/kraklabs/sentinel2ingest/internal/dategen"
)

func main() {
	lookback := flag.Int("lookback-days", dategen.DefaultLookbackDays, "number of days to look back")
	platformsFlag := flag.String("platforms", "", "comma-separated platform codes (default S2A,S2B,S2C)")
	flag.Parse()

	var platforms []string
	if *platformsFlag != "" {
		platforms = strings.Split(*platformsFlag, ",")
	}

	items := dategen.Generate(time.Time{}, *lookback, platforms)

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(items); err != nil {
		log.Fatalf("encode work items: %v", err)
	}
}
