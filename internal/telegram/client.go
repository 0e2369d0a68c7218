// Package telegram wraps the gotd MTProto client behind the narrow API
// surface the tool layer depends on. Raw protocol records are decoded into
// the typed entities of this package exactly once, at this boundary.
package telegram

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/time/rate"

	"github.com/teemow/telegram-mcp/internal/config"
)

// peerKind distinguishes the three peer families of the protocol.
type peerKind int

const (
	peerUser peerKind = iota
	peerChat
	peerChannel
)

// peerRef caches the access hash needed to address a peer by numeric id.
type peerRef struct {
	kind       peerKind
	accessHash int64
}

// Client is the MTProto-backed implementation of API. A single Client owns
// one session; the MCP layer holds exactly one per process.
type Client struct {
	apiID       int
	apiHash     string
	phone       string
	sessionDir  string
	downloadDir string
	logger      *slog.Logger

	// baseCtx bounds the session lifetime. The run loop derives from it,
	// never from the per-call context handed to Connect.
	baseCtx context.Context

	mu            sync.Mutex
	connected     bool
	disconnecting bool
	cancel        context.CancelFunc
	runDone       chan struct{}
	client        *telegram.Client
	api           *tg.Client

	limiter *rate.Limiter

	peerMu sync.RWMutex
	peers  map[int64]peerRef
	self   *tg.User
}

var _ API = (*Client)(nil)

// NewClient builds a Client from the injected configuration. No connection is
// made until Connect is called. ctx is the lifetime of the session: when it
// ends the run loop stops, regardless of which call established it.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseCtx:     ctx,
		apiID:       cfg.APIID,
		apiHash:     cfg.APIHash,
		phone:       cfg.PhoneNumber,
		sessionDir:  cfg.SessionDir,
		downloadDir: cfg.DownloadDir,
		logger:      logger.With(slog.String("component", "telegram_client")),
		limiter:     rate.NewLimiter(rate.Every(time.Second), 10),
		peers:       make(map[int64]peerRef),
	}
}

// runContext derives the context the run loop lives under. It comes from the
// client's base context so the session outlives the call that opened it.
func (c *Client) runContext() (context.Context, context.CancelFunc) {
	base := c.baseCtx
	if base == nil {
		base = context.Background()
	}
	return context.WithCancel(base)
}

// Connect establishes the MTProto session, restoring it from disk when
// possible and running the interactive phone/code/2FA flow otherwise. The
// connection lives until Disconnect or cancellation of the client's base
// context; ctx only bounds the wait for the session to become ready.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		c.logger.Debug("already connected")
		return nil
	}
	if c.disconnecting {
		return fmt.Errorf("disconnect in progress, cannot connect")
	}

	storage, err := NewFileSessionStorage(c.sessionDir, c.phone)
	if err != nil {
		return fmt.Errorf("failed to create session storage: %w", err)
	}

	c.client = telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: storage,
	})

	runCtx, cancel := c.runContext()
	c.cancel = cancel
	c.runDone = make(chan struct{})

	readyCh := make(chan struct{})
	errCh := make(chan error, 1)

	go func() {
		defer close(c.runDone)
		err := c.client.Run(runCtx, func(ctx context.Context) error {
			c.api = c.client.API()

			flow := auth.NewFlow(consoleAuth{phone: c.phone}, auth.SendCodeOptions{})
			if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			self, err := c.client.Self(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch self: %w", err)
			}
			c.peerMu.Lock()
			c.self = self
			c.peers[self.ID] = peerRef{kind: peerUser, accessHash: self.AccessHash}
			c.peerMu.Unlock()

			c.connected = true
			c.logger.Info("connected to Telegram")
			close(readyCh)

			<-ctx.Done()
			return ctx.Err()
		})
		select {
		case errCh <- err:
		default:
		}
	}()

	select {
	case <-readyCh:
		return nil
	case err := <-errCh:
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Disconnect stops the session. It is safe to call repeatedly and when not
// connected. The passed context bounds how long we wait for the run loop to
// drain.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.disconnecting || !c.connected {
		c.mu.Unlock()
		c.logger.Debug("already disconnected")
		return nil
	}
	c.disconnecting = true
	cancel := c.cancel
	runDone := c.runDone
	c.mu.Unlock()

	c.logger.Info("disconnecting from Telegram")
	if cancel != nil {
		cancel()
		if runDone != nil {
			select {
			case <-runDone:
			case <-ctx.Done():
				c.logger.Warn("timeout waiting for client shutdown")
			}
		}
	}

	c.mu.Lock()
	c.client = nil
	c.api = nil
	c.connected = false
	c.cancel = nil
	c.runDone = nil
	c.disconnecting = false
	c.mu.Unlock()
	return nil
}

// IsConnected reports whether the session is established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// raw returns the low-level API client after waiting on the rate limiter.
// Every remote operation goes through here.
func (c *Client) raw(ctx context.Context) (*tg.Client, error) {
	c.mu.Lock()
	api := c.api
	connected := c.connected
	c.mu.Unlock()
	if !connected || api == nil {
		return nil, ErrNotConnected
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return api, nil
}

// cachePeers records access hashes for every user and chat seen in a server
// response, so later numeric-id lookups resolve without extra round trips.
func (c *Client) cachePeers(users []tg.UserClass, chats []tg.ChatClass) {
	c.peerMu.Lock()
	defer c.peerMu.Unlock()
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			c.peers[user.ID] = peerRef{kind: peerUser, accessHash: user.AccessHash}
		}
	}
	for _, ch := range chats {
		switch v := ch.(type) {
		case *tg.Chat:
			c.peers[v.ID] = peerRef{kind: peerChat}
		case *tg.Channel:
			c.peers[v.ID] = peerRef{kind: peerChannel, accessHash: v.AccessHash}
		}
	}
}

func (c *Client) lookupPeer(id int64) (peerRef, bool) {
	c.peerMu.RLock()
	defer c.peerMu.RUnlock()
	ref, ok := c.peers[id]
	return ref, ok
}

// resolvePeer turns a chat id string (numeric id or @username) into an input
// peer. Numeric ids are served from the peer cache; on a miss the dialog list
// is fetched once to warm it.
func (c *Client) resolvePeer(ctx context.Context, chatID string) (tg.InputPeerClass, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("CHAT_ID_INVALID: empty chat id")
	}

	if strings.HasPrefix(chatID, "@") {
		return c.resolveUsername(ctx, strings.TrimPrefix(chatID, "@"))
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("CHAT_ID_INVALID: %q is not a chat id or @username", chatID)
	}

	// Accept Bot-API style prefixed ids for convenience.
	switch {
	case id <= -1_000_000_000_000:
		id = -id - 1_000_000_000_000
	case id < 0:
		id = -id
	}

	if ref, ok := c.lookupPeer(id); ok {
		return inputPeerFor(id, ref), nil
	}

	// Cache miss: warm the cache from the dialog list and retry once.
	if _, err := c.GetChats(ctx, 200); err != nil {
		return nil, err
	}
	if ref, ok := c.lookupPeer(id); ok {
		return inputPeerFor(id, ref), nil
	}
	return nil, fmt.Errorf("CHAT_ID_INVALID: unknown chat %d", id)
}

func inputPeerFor(id int64, ref peerRef) tg.InputPeerClass {
	switch ref.kind {
	case peerUser:
		return &tg.InputPeerUser{UserID: id, AccessHash: ref.accessHash}
	case peerChannel:
		return &tg.InputPeerChannel{ChannelID: id, AccessHash: ref.accessHash}
	default:
		return &tg.InputPeerChat{ChatID: id}
	}
}

func (c *Client) resolveUsername(ctx context.Context, username string) (tg.InputPeerClass, error) {
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := api.ContactsResolveUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve @%s: %w", username, err)
	}
	c.cachePeers(resolved.Users, resolved.Chats)

	for _, ch := range resolved.Chats {
		switch v := ch.(type) {
		case *tg.Channel:
			return &tg.InputPeerChannel{ChannelID: v.ID, AccessHash: v.AccessHash}, nil
		case *tg.Chat:
			return &tg.InputPeerChat{ChatID: v.ID}, nil
		}
	}
	for _, u := range resolved.Users {
		if user, ok := u.(*tg.User); ok {
			return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("CHAT_ID_INVALID: @%s did not resolve to a peer", username)
}

// inputChannel narrows a resolved peer to a channel, required by channel-only
// protocol calls.
func (c *Client) inputChannel(ctx context.Context, chatID string) (*tg.InputChannel, bool, error) {
	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	if ch, ok := peer.(*tg.InputPeerChannel); ok {
		return &tg.InputChannel{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash}, true, nil
	}
	return nil, false, nil
}

func randomID() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
