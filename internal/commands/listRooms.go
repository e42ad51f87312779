package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"catalyst/internal/api"
	"catalyst/internal/config"
)

// ListRooms prints the room directory as served by a running instance.
func ListRooms(cfg *config.Config, out io.Writer) error {
	url := fmt.Sprintf("http://%s/admin/rooms", cfg.AdminAddr)
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to call admin API: %w. Is the server running?", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to list rooms (Status: %d): %s", resp.StatusCode, string(body))
	}

	var result api.RoomsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tUNREAD\tLAST MESSAGE")
	for _, room := range result.Rooms {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", room.ID, room.Name, room.UnreadBadge(), room.LastMessage)
	}
	return tw.Flush()
}
