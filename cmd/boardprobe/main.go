// boardprobe is a diagnostic client that speaks the same protocol as a
// physical board: it checks the HTTP surface, joins a room over websocket,
// and runs a few read-only commands. Useful when bringing up a new server or
// a new Raspberry Pi image.
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/sense-checkers/server/internal/apiclient"
	"github.com/sense-checkers/server/internal/hub"
)

func main() {
	baseURL := os.Getenv("BOARD_BASE_URL")
	wsURL := os.Getenv("BOARD_WS_URL")
	room := os.Getenv("BOARD_ROOM")
	if baseURL == "" {
		log.Fatal("BOARD_BASE_URL is required")
	}
	if room == "" {
		room = "probe"
	}

	client := apiclient.NewClient(baseURL, apiclient.WithTimeout(8*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		log.Fatalf("/health error: %v", err)
	}
	log.Println("/health ok")

	if wsURL == "" {
		log.Println("BOARD_WS_URL not set; skipping WS check")
		return
	}

	dialCtx, dcancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dcancel()
	conn, _, err := websocket.Dial(dialCtx, wsURL+"?room="+url.QueryEscape(room), nil)
	if err != nil {
		log.Fatalf("WS dial error: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "probe done")

	for _, cmd := range []string{"player_num", "whose_turn", "moves", "is_over"} {
		resp, err := roundTrip(conn, cmd)
		if err != nil {
			log.Fatalf("%s error: %v", cmd, err)
		}
		fmt.Printf("%s → %v\n", cmd, resp.Results)
	}

	if png, err := client.BoardPNG(context.Background(), room); err != nil {
		log.Printf("board.png error: %v", err)
	} else {
		log.Printf("board.png ok: %d bytes", len(png))
	}
}

func roundTrip(conn *websocket.Conn, cmd string) (*hub.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, hub.Request{Command: cmd}); err != nil {
		return nil, err
	}
	var resp hub.Response
	if err := wsjson.Read(ctx, conn, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return &resp, fmt.Errorf("server error: %s", resp.Error)
	}
	return &resp, nil
}
