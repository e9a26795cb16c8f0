package cardclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pokearena/arena-server/internal/arena"
	"github.com/pokearena/arena-server/internal/constants"

	"golang.org/x/sync/singleflight"
)

// Client talks to the external card registry. The registry owns card
// minting, ownership and stats; this engine only reads them and pushes
// best-effort experience credits.
type Client struct {
	baseURL string
	http    *http.Client

	// stats reads for the same card are deduplicated so a burst of
	// acceptances touching one card issues a single upstream request.
	statsGroup singleflight.Group
}

// New creates a client against the registry base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type statsPayload struct {
	HP      uint32 `json:"hp"`
	Attack  uint32 `json:"attack"`
	Defense uint32 `json:"defense"`
	Speed   uint32 `json:"speed"`
	Type    string `json:"type"`
	Rarity  string `json:"rarity"`
}

// GetStats reads a card's stat block.
func (c *Client) GetStats(ctx context.Context, cardID uint64) (arena.CardStats, error) {
	v, err, _ := c.statsGroup.Do(strconv.FormatUint(cardID, 10), func() (interface{}, error) {
		var payload statsPayload
		if err := c.getJSON(ctx, fmt.Sprintf("%s/cards/%d/stats", c.baseURL, cardID), &payload); err != nil {
			return arena.CardStats{}, err
		}
		cardType, err := arena.ParseCardType(payload.Type)
		if err != nil {
			return arena.CardStats{}, err
		}
		rarity, err := arena.ParseRarity(payload.Rarity)
		if err != nil {
			return arena.CardStats{}, err
		}
		return arena.CardStats{
			HP:      payload.HP,
			Attack:  payload.Attack,
			Defense: payload.Defense,
			Speed:   payload.Speed,
			Type:    cardType,
			Rarity:  rarity,
		}, nil
	})
	if err != nil {
		return arena.CardStats{}, err
	}
	return v.(arena.CardStats), nil
}

// OwnerOf returns the address owning a card.
func (c *Client) OwnerOf(ctx context.Context, cardID uint64) (string, error) {
	var payload struct {
		Owner string `json:"owner"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/cards/%d/owner", c.baseURL, cardID), &payload); err != nil {
		return "", err
	}
	if payload.Owner == "" {
		return "", fmt.Errorf("card registry returned no owner for card %d", cardID)
	}
	return payload.Owner, nil
}

// CreditExperience asks the registry to credit battle experience to a
// card. Callers treat failures as non-fatal.
func (c *Client) CreditExperience(ctx context.Context, cardID uint64, amount uint64) error {
	body, _ := json.Marshal(map[string]uint64{"amount": amount})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/cards/%d/experience", c.baseURL, cardID), strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("experience credit failed: %d %s", resp.StatusCode, string(raw))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("card registry request failed: %d %s", resp.StatusCode, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
