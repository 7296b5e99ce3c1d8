package ws

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
)

// Dial connects to one relay channel endpoint.
func Dial(ctx context.Context, host string, port int, path string) (*websocket.Conn, error) {
	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", host, port), Path: path}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return conn, nil
}
