package remote

import (
	"context"
)

type Event struct {
	ID          Text   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type Post struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	CreatedAt string `json:"created_at"`
	Content   string `json:"content"`
	Image     string `json:"image"`
}

func (c *Client) Events(ctx context.Context) ([]Event, error) {
	body, err := c.get(ctx, "get_events.php", nil)
	if err != nil {
		return nil, err
	}
	events, err := decode[[]Event]("get_events.php", body, eventsSchema)
	if err != nil {
		return nil, err
	}
	return *events, nil
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	body, err := c.get(ctx, "blogapi.php", nil)
	if err != nil {
		return nil, err
	}
	posts, err := decode[[]Post]("blogapi.php", body, blogSchema)
	if err != nil {
		return nil, err
	}
	return *posts, nil
}
