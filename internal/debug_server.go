package internal

import (
	"batepapo/domain"
	"batepapo/repositories"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves a read-only HTML view of the store on port.
// The caller owns the returned server and shuts it down.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, endpoint string, statsProvider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = repositories.ParticipantPrefix
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		rows, err := Scan(db, prefix, 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data.Items = rows

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug inspector stopped", "error", err)
		}
	}()
	return server
}

// Scan maps every entry under prefix to a row. A positive limit caps the number of rows.
func Scan(db *badger.DB, prefix string, limit int) ([]InspectRow, error) {
	var rows []InspectRow
	mapper := MapperFor(prefix)
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if limit > 0 && len(rows) >= limit {
				return nil
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(string(item.Key()), val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// MapperFor picks the row mapper matching the key family of prefix.
func MapperFor(prefix string) RowMapper {
	switch {
	case strings.HasPrefix(prefix, repositories.ParticipantPrefix):
		return ParticipantMapper
	case strings.HasPrefix(prefix, repositories.MessagePrefix):
		return MessageMapper
	default:
		return DefaultMapper
	}
}

func DefaultMapper(key string, val []byte) InspectRow {
	return InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
}

func ParticipantMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	participant, err := repositories.DecodeParticipant(val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = "PARTICIPANT"
	row.EntityID = participant.Name
	row.Timestamp = participant.LastSeen.Format(domain.TimeLayout)
	row.Detail = fmt.Sprintf("last seen %d ms", participant.LastSeen.UnixMilli())
	return row
}

func MessageMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	message, err := repositories.DecodeMessage(val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = strings.ToUpper(string(message.Kind))
	row.EntityID = message.ID.String()[:8]
	row.Timestamp = message.Time
	row.Detail = fmt.Sprintf("%s -> %s: %s", message.From, message.To, message.Text)
	return row
}
