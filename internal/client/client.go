// Package client implements a minimal TLS client for the figure catalog
// line protocol. It is synchronous: one request in flight at a time.
package client

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/heartmarshall/figstore/internal/domain"
	"github.com/heartmarshall/figstore/internal/transport/tcp"
)

// ErrServer is returned when the server answers with an ERROR status;
// the response content is carried in the error message.
var ErrServer = errors.New("server error")

// Client holds one authenticated protocol session.
type Client struct {
	conn   *tls.Conn
	reader *bufio.Reader
	token  string
}

// Dial connects to addr over TLS 1.3. insecure skips certificate
// verification, for self-signed development certs only.
func Dial(addr string, insecure bool) (*Client, error) {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		MinVersion:         tls.VersionTLS13,
		MaxVersion:         tls.VersionTLS13,
		InsecureSkipVerify: insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Login authenticates and stores the session token for later requests.
func (c *Client) Login(username, password string) error {
	creds, err := json.Marshal(tcp.Credentials{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	resp, err := c.roundTrip(tcp.Request{Type: tcp.RequestLogin, Content: string(creds)})
	if err != nil {
		return err
	}
	if resp.Status != tcp.StatusToken {
		return fmt.Errorf("%w: %s", ErrServer, resp.Content)
	}

	c.token = resp.Content
	return nil
}

// GetAll lists the whole catalog.
func (c *Client) GetAll() ([]tcp.FigurePayload, error) {
	return c.list(tcp.Request{Type: tcp.RequestGetAll})
}

// GetByID fetches one figure by its numeric id.
func (c *Client) GetByID(id int64) (*tcp.FigurePayload, error) {
	return c.one(tcp.Request{Type: tcp.RequestGetByID, Content: strconv.FormatInt(id, 10)})
}

// GetByCategory lists figures of one category.
func (c *Client) GetByCategory(category domain.Category) ([]tcp.FigurePayload, error) {
	return c.list(tcp.Request{Type: tcp.RequestGetByCategory, Content: category.String()})
}

// GetByReleaseYear lists figures released in the given year.
func (c *Client) GetByReleaseYear(year int) ([]tcp.FigurePayload, error) {
	return c.list(tcp.Request{Type: tcp.RequestGetByRelease, Content: strconv.Itoa(year)})
}

// Create stores a new figure and returns the persisted record.
func (c *Client) Create(f tcp.FigurePayload) (*tcp.FigurePayload, error) {
	content, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	return c.one(tcp.Request{Type: tcp.RequestPost, Content: string(content)})
}

// Update rewrites an existing figure and returns the persisted record.
func (c *Client) Update(f tcp.FigurePayload) (*tcp.FigurePayload, error) {
	content, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	return c.one(tcp.Request{Type: tcp.RequestUpdate, Content: string(content)})
}

// Delete removes a figure by id and returns the deleted record.
func (c *Client) Delete(id int64) (*tcp.FigurePayload, error) {
	return c.one(tcp.Request{Type: tcp.RequestDelete, Content: strconv.FormatInt(id, 10)})
}

// Close says goodbye to the server and closes the connection.
func (c *Client) Close() error {
	resp, err := c.roundTrip(tcp.Request{Type: tcp.RequestExit})
	if err == nil && resp.Status != tcp.StatusBye {
		err = fmt.Errorf("%w: unexpected goodbye status %s", ErrServer, resp.Status)
	}
	if cerr := c.conn.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (c *Client) one(req tcp.Request) (*tcp.FigurePayload, error) {
	resp, err := c.checked(req)
	if err != nil {
		return nil, err
	}

	var payload tcp.FigurePayload
	if err := json.Unmarshal([]byte(resp.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode figure: %w", err)
	}
	return &payload, nil
}

func (c *Client) list(req tcp.Request) ([]tcp.FigurePayload, error) {
	resp, err := c.checked(req)
	if err != nil {
		return nil, err
	}

	var payloads []tcp.FigurePayload
	if err := json.Unmarshal([]byte(resp.Content), &payloads); err != nil {
		return nil, fmt.Errorf("decode figures: %w", err)
	}
	return payloads, nil
}

func (c *Client) checked(req tcp.Request) (tcp.Response, error) {
	resp, err := c.roundTrip(req)
	if err != nil {
		return tcp.Response{}, err
	}
	if resp.Status != tcp.StatusOK {
		return tcp.Response{}, fmt.Errorf("%w: %s", ErrServer, resp.Content)
	}
	return resp, nil
}

func (c *Client) roundTrip(req tcp.Request) (tcp.Response, error) {
	req.Token = c.token
	req.CreatedAt = time.Now().Format(time.RFC3339)

	data, err := json.Marshal(req)
	if err != nil {
		return tcp.Response{}, fmt.Errorf("encode request: %w", err)
	}

	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return tcp.Response{}, fmt.Errorf("send request: %w", err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return tcp.Response{}, fmt.Errorf("read response: %w", err)
	}

	var resp tcp.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return tcp.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
