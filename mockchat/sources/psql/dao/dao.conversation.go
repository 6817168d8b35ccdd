package dao

import (
	"context"
	"errors"

	"mockchat/mockchat/sources/psql/models"
	"mockchat/mockchat/sources/store"
	"mockchat/mockchat/utils/logging"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ConversationDAO is the SQL implementation of store.Store.
type ConversationDAO struct {
	DB *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{DB: db}
}

var _ store.Store = (*ConversationDAO)(nil)

func keyScope(key store.Key) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND conversation_id = ?", key.UserID, key.ConversationID)
	}
}

func toMessage(m models.ChatMessage) store.Message {
	return store.Message{
		ID:          m.MessageID,
		Role:        m.Role,
		Content:     m.Content,
		Ts:          m.Ts,
		Attachments: m.Attachments,
	}
}

func toRow(key store.Key, m store.Message) models.ChatMessage {
	return models.ChatMessage{
		UserID:         key.UserID,
		ConversationID: key.ConversationID,
		MessageID:      m.ID,
		Role:           m.Role,
		Content:        m.Content,
		Ts:             m.Ts,
		Attachments:    m.Attachments,
	}
}

func ensureConversation(tx *gorm.DB, key store.Key) (*models.Conversation, error) {
	conv := models.Conversation{UserID: key.UserID, ConversationID: key.ConversationID}
	err := tx.Scopes(keyScope(key)).FirstOrCreate(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func loadMessages(tx *gorm.DB, key store.Key) ([]store.Message, error) {
	var rows []models.ChatMessage
	if err := tx.Scopes(keyScope(key)).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]store.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, toMessage(r))
	}
	return out, nil
}

func lastMessage(tx *gorm.DB, key store.Key) (*models.ChatMessage, error) {
	var row models.ChatMessage
	err := tx.Scopes(keyScope(key)).Order("seq DESC").Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (dao *ConversationDAO) Append(ctx context.Context, key store.Key, msgs ...store.Message) ([]store.Message, error) {
	defer logging.LogDuration(ctx, "conversation_dao_append")()
	var out []store.Message
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := ensureConversation(tx, key)
		if err != nil {
			return err
		}
		if len(msgs) > 0 {
			rows := make([]models.ChatMessage, 0, len(msgs))
			for _, m := range msgs {
				rows = append(rows, toRow(key, m))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
			if err := tx.Model(conv).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
				return err
			}
		}
		out, err = loadMessages(tx, key)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "append messages")
	}
	return out, nil
}

func (dao *ConversationDAO) Messages(ctx context.Context, key store.Key) ([]store.Message, error) {
	out, err := loadMessages(dao.DB.WithContext(ctx), key)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load messages")
	}
	return out, nil
}

// lastMessages returns the newest message of every conversation of userID,
// keyed by conversation id, in one query.
func lastMessages(tx *gorm.DB, userID string) (map[string]models.ChatMessage, error) {
	latest := tx.Model(&models.ChatMessage{}).
		Select("MAX(seq)").
		Where("user_id = ?", userID).
		Group("conversation_id")
	var rows []models.ChatMessage
	if err := tx.Where("seq IN (?)", latest).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.ChatMessage, len(rows))
	for _, r := range rows {
		out[r.ConversationID] = r
	}
	return out, nil
}

func (dao *ConversationDAO) List(ctx context.Context, userID string) ([]store.Summary, error) {
	defer logging.LogDuration(ctx, "conversation_dao_list")()
	db := dao.DB.WithContext(ctx)
	var convs []models.Conversation
	if err := db.Where("user_id = ?", userID).Find(&convs).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list conversations")
	}
	lasts, err := lastMessages(db, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "last messages")
	}
	list := make([]store.Summary, 0, len(convs))
	for _, c := range convs {
		var msgs []store.Message
		if last, ok := lasts[c.ConversationID]; ok {
			msgs = []store.Message{toMessage(last)}
		}
		list = append(list, store.Summarize(c.ConversationID, store.Meta{Title: c.Title, SystemPrompt: c.SystemPrompt}, msgs))
	}
	store.SortSummaries(list)
	return list, nil
}

func (dao *ConversationDAO) Meta(ctx context.Context, key store.Key) (store.Meta, bool, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).Scopes(keyScope(key)).Take(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Meta{}, false, nil
	}
	if err != nil {
		return store.Meta{}, false, pkgerrors.Wrap(err, "load meta")
	}
	return store.Meta{Title: conv.Title, SystemPrompt: conv.SystemPrompt}, true, nil
}

func (dao *ConversationDAO) SaveMeta(ctx context.Context, key store.Key, meta store.Meta) error {
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := ensureConversation(tx, key)
		if err != nil {
			return err
		}
		return tx.Model(conv).Updates(map[string]interface{}{
			"title":         meta.Title,
			"system_prompt": meta.SystemPrompt,
		}).Error
	})
	return pkgerrors.Wrap(err, "save meta")
}

func (dao *ConversationDAO) UpsertAssistant(ctx context.Context, key store.Key, msg store.Message) (store.Message, error) {
	var saved store.Message
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := ensureConversation(tx, key)
		if err != nil {
			return err
		}
		last, err := lastMessage(tx, key)
		if err != nil {
			return err
		}
		if last != nil && last.Role == store.RoleAssistant {
			last.Content = msg.Content
			last.Ts = msg.Ts
			if err := tx.Model(last).Updates(map[string]interface{}{"content": msg.Content, "ts": msg.Ts}).Error; err != nil {
				return err
			}
			saved = toMessage(*last)
		} else {
			row := toRow(key, msg)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			saved = toMessage(row)
		}
		return tx.Model(conv).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	})
	if err != nil {
		return store.Message{}, pkgerrors.Wrap(err, "upsert assistant message")
	}
	return saved, nil
}

func (dao *ConversationDAO) Clear(ctx context.Context) error {
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Conversation{}).Error
	})
	return pkgerrors.Wrap(err, "clear conversations")
}

func (dao *ConversationDAO) Close() error {
	sqlDB, err := dao.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
