// internal/services/boards.go
package services

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const boardKeyPrefix = "pointeuse:board:"

// BoardStore помнит сообщения-пуантёзы по каналам, чтобы /creatp
// переживал рестарт процесса
type BoardStore struct {
	client *redis.Client
}

func NewBoardStore(client *redis.Client) *BoardStore {
	return &BoardStore{client: client}
}

func (s *BoardStore) SaveBoard(ctx context.Context, channelID, messageID string) error {
	return s.client.Set(ctx, boardKeyPrefix+channelID, messageID, 0).Err()
}

// Boards channelID -> messageID всех зарегистрированных пуантёз
func (s *BoardStore) Boards(ctx context.Context) (map[string]string, error) {
	keys, err := s.client.Keys(ctx, boardKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	boards := make(map[string]string, len(keys))
	for _, key := range keys {
		messageID, err := s.client.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		boards[strings.TrimPrefix(key, boardKeyPrefix)] = messageID
	}
	return boards, nil
}
