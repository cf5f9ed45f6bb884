// Command inspect dumps the chat store as a table without starting the server.
package main

import (
	"batepapo/internal"
	"batepapo/repositories"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	what := flag.String("what", "participants", "participants or messages")
	limit := flag.Int("limit", 0, "Maximum rows, 0 for all")
	flag.Parse()

	prefix := repositories.ParticipantPrefix
	switch *what {
	case "participants":
	case "messages":
		prefix = repositories.MessagePrefix
	default:
		log.Fatalf("Unknown -what %q, expected participants or messages", *what)
	}
	if *dbPath == "" {
		log.Fatal("No database path, set -db or BADGER_FILEPATH")
	}

	// BypassLockGuard lets us read while the server holds the lock
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	rows, err := internal.Scan(db, prefix, *limit)
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "Type", "ID", "Detail", "Key"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, row := range rows {
		table.Append([]string{row.Timestamp, row.Type, row.EntityID, row.Detail, row.Key})
	}
	table.Render()
	fmt.Printf("\n%d %s\n", len(rows), *what)
}
