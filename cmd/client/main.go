// Command client is a terminal test client for the pong server.
// It prints role assignment and score transitions, and forwards simple
// line commands as protocol frames.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tompom/gameserver/internal/protocol"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8765/ws", "server websocket URL")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	log.Printf("🔌 Connected to %s", *addr)

	go readLoop(conn)

	fmt.Println("commands: u (up), d (down), x (stop), r (reset), + / - (speed), q (quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var msg any
		switch strings.TrimSpace(scanner.Text()) {
		case "u":
			msg = protocol.ClientMessage{Type: protocol.TypeInput, Up: true}
		case "d":
			msg = protocol.ClientMessage{Type: protocol.TypeInput, Down: true}
		case "x":
			msg = protocol.ClientMessage{Type: protocol.TypeInput}
		case "r":
			msg = protocol.ClientMessage{Type: protocol.TypeReset}
		case "+":
			delta := 1.0
			msg = protocol.ClientMessage{Type: protocol.TypeSpeed, Delta: &delta}
		case "-":
			delta := -1.0
			msg = protocol.ClientMessage{Type: protocol.TypeSpeed, Delta: &delta}
		case "q":
			return
		default:
			continue
		}

		data, err := protocol.Encode(msg)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Fatalf("Send failed: %v", err)
		}
	}
}

// readLoop prints role assignment and score transitions, skipping the
// 60 Hz state frames in between.
func readLoop(conn *websocket.Conn) {
	lastLeft, lastRight := -1, -1
	over := false

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("Connection closed: %v", err)
		}

		var frame struct {
			Type  string                 `json:"type"`
			Role  string                 `json:"role"`
			State *protocol.StatePayload `json:"state"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		switch frame.Type {
		case protocol.TypeRole:
			log.Printf("🏓 You are: %s", frame.Role)
		case protocol.TypeState:
			s := frame.State
			if s == nil {
				continue
			}
			if s.ScoreLeft != lastLeft || s.ScoreRight != lastRight {
				lastLeft, lastRight = s.ScoreLeft, s.ScoreRight
				log.Printf("🔢 Score: %d - %d", s.ScoreLeft, s.ScoreRight)
			}
			if s.GameOver && !over {
				over = true
				log.Printf("🏆 Game over, %s wins", s.Winner)
			}
			if !s.GameOver {
				over = false
			}
		}
	}
}
