// Command client is a thin terminal front end for the relay: it logs
// in over the login channel, prints the broadcast stream, and pushes
// typed lines to the ingest channel. All chat semantics live server
// side; this program only consumes the three channels.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/infrastructure/ws"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

const (
	defaultLoginPort     = 5555
	defaultBroadcastPort = 5556
	defaultIngestPort    = 5557
)

func main() {
	server := flag.String("s", "127.0.0.1", "relay IP address")
	username := flag.String("u", "", "username to login with")
	flag.Parse()

	if err := run(*server, *username); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(server, username string) error {
	ctx := context.Background()
	stdin := bufio.NewScanner(os.Stdin)

	if username == "" {
		fmt.Print("Username: ")
		if !stdin.Scan() {
			return fmt.Errorf("no username given")
		}
		username = strings.TrimSpace(stdin.Text())
	}

	fmt.Print("Password: ")
	if !stdin.Scan() {
		return fmt.Errorf("no password given")
	}
	digest := auth.DefaultDigester().Digest(stdin.Text())

	recent, err := login(ctx, server, username, digest)
	if err != nil {
		return err
	}
	color.Green.Println("Logged in successfully")
	for _, message := range recent {
		printMessage(message)
	}

	receive, err := ws.Dial(ctx, server, defaultBroadcastPort, ws.MessagesPath)
	if err != nil {
		return err
	}
	defer receive.Close()

	send, err := ws.Dial(ctx, server, defaultIngestPort, ws.SendPath)
	if err != nil {
		return err
	}
	defer send.Close()

	go receiveLoop(receive)

	return sendLoop(stdin, send, username)
}

// login performs the one-shot request/response exchange and returns
// the snapshot of recent messages carried by a successful reply.
func login(ctx context.Context, server, username, digest string) ([]domain.ChatMessage, error) {
	conn, err := ws.Dial(ctx, server, defaultLoginPort, ws.LoginPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err = conn.WriteJSON(domain.LoginRequest{
		Type:           domain.LoginType,
		Username:       username,
		PasswordDigest: digest,
	}); err != nil {
		return nil, err
	}

	var response domain.LoginResponse
	if err = conn.ReadJSON(&response); err != nil {
		return nil, err
	}
	if response.Status != domain.StatusSuccess {
		return nil, fmt.Errorf("login failed for %q", username)
	}
	return response.Messages, nil
}

func receiveLoop(conn *websocket.Conn) {
	for {
		var message domain.ChatMessage
		if err := conn.ReadJSON(&message); err != nil {
			color.Red.Println("Lost connection to relay")
			os.Exit(1)
		}
		printMessage(message)
	}
}

func sendLoop(stdin *bufio.Scanner, conn *websocket.Conn, username string) error {
	for {
		if !stdin.Scan() {
			return nil
		}
		text := stdin.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		err := conn.WriteJSON(domain.InboundMessage{
			Type:          "MESSAGE",
			Text:          text,
			Sender:        username,
			SenderAddress: localAddress(),
		})
		if err != nil {
			return err
		}
	}
}

// printMessage renders "{time} {sender}@{address}: {message}".
func printMessage(message domain.ChatMessage) {
	fmt.Printf("%s %s: %s\n",
		color.Gray.Sprint(message.Time),
		color.Cyan.Sprintf("%s@%s", message.Sender, message.SenderAddress),
		message.Text,
	)
}

// localAddress reports the interface address used to reach the wider
// network. The relay never verifies it; it is display metadata.
func localAddress() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "unknown"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
