package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "tower-vision/internal/application"
	"tower-vision/internal/container"
	"tower-vision/internal/domain/entity"
	"tower-vision/internal/monitoring"
)

const (
	msgStart = `👋 Привет! Я ищу опоры ЛЭП на кадрах аэросъёмки.

📸 Пришлите два соседних кадра видео, и я проверю, есть ли на них опора.

📋 Команды:
/check — начать проверку пары кадров
/status — текущий детектор линий
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check
2️⃣ Пришлите первый кадр
3️⃣ Пришлите следующий кадр того же видео
4️⃣ Получите кадр с отмеченной опорой или сообщение, что опора не найдена

💡 Рекомендации:
• Кадры должны идти подряд, камера движется
• Отправляйте кадры одинакового размера

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingFirst   = "📸 Отправьте первый кадр."
	msgAwaitingSecond  = "📸 Теперь отправьте следующий кадр."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendCheck       = "📸 Отправьте /check, чтобы начать проверку пары кадров."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Ищу опору..."
	msgBusy            = "⏳ Предыдущая пара ещё обрабатывается."
	msgNotFound        = "✅ Опора не найдена."
	msgFound           = "🗼 Опора найдена: %s"
	msgStatus          = "⚙️ Детектор линий: %s"
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другие кадры."
)

// sender часть BotAPI, через которую бот отвечает
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	download func(fileID string) ([]byte, error)
	users    *app.UserService
	checks   *app.InspectionService
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	monitoring.Infof("Authorized on account %s", api.Self.UserName)

	b := newBot(api, c)
	b.api = api
	b.download = b.downloadFile
	return b, nil
}

func newBot(out sender, c *container.Container) *Bot {
	return &Bot{
		out:    out,
		users:  c.UserService,
		checks: c.InspectionService,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		monitoring.Errorf("Error getting user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendCheck)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.setState(b.checks.Cancel(ctx, userID, chatID))
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		b.setState(b.users.BeginCheck(ctx, userID, chatID))
		b.sendMessage(chatID, msgAwaitingFirst)

	case "cancel":
		b.setState(b.checks.Cancel(ctx, userID, chatID))
		b.sendMessage(chatID, msgCancelled)

	case "status":
		b.sendMessage(chatID, fmt.Sprintf(msgStatus, b.checks.DetectorType()))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящее фото в зависимости от шага проверки
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	switch {
	case user.AwaitingFrame():
	case user.State == entity.StateProcessing:
		b.sendMessage(chatID, msgBusy)
		return
	default:
		b.sendMessage(chatID, msgSendCheck)
		return
	}

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]
	data, err := b.download(photo.FileID)
	if err != nil {
		monitoring.Errorf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if user.State == entity.StateAwaitingFirstFrame {
		if _, err := b.checks.AcceptFirstFrame(ctx, user.ID, chatID, data); err != nil {
			monitoring.Errorf("Error accepting first frame: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgAwaitingSecond)
		return
	}

	b.sendMessage(chatID, msgProcessing)
	out, err := b.checks.AcceptSecondFrame(ctx, user.ID, chatID, data)
	if err != nil {
		monitoring.Errorf("Error checking frames: %v", err)
		if errors.Is(err, app.ErrNoFirstFrame) {
			b.setState(b.users.BeginCheck(ctx, user.ID, chatID))
			b.sendMessage(chatID, msgAwaitingFirst)
			return
		}
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if !out.Result.Found {
		b.sendMessage(chatID, msgNotFound)
		return
	}
	reply := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "tower.png", Bytes: out.Annotated})
	reply.Caption = fmt.Sprintf(msgFound, out.Result.Window)
	if _, err := b.out.Send(reply); err != nil {
		monitoring.Errorf("Error sending photo: %v", err)
	}
}

func (b *Bot) setState(_ *entity.User, err error) {
	if err != nil {
		monitoring.Errorf("Error saving user state: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		monitoring.Errorf("Error sending message: %v", err)
	}
}
