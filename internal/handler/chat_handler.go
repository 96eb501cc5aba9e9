package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"farm-assist-go/internal/middleware"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/log"
	"farm-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有来源
		},
	}
)

const wsWriteTimeout = 10 * time.Second

// ChatHandler 负责处理问答请求，包括 HTTP 和 WebSocket 两种传输方式。
type ChatHandler struct {
	chatService service.ChatService
	userService service.UserService
	jwtManager  *token.JWTManager
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, userService service.UserService, jwtManager *token.JWTManager) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// ChatRequest 是提问的请求体，WebSocket 帧也使用同样的结构。
type ChatRequest struct {
	Content string `json:"content"`
}

// chatResponse 在使用兜底回答时附带 error 提示。
func chatResponse(res *service.ChatResult, withNotice bool) gin.H {
	body := gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    res,
	}
	if withNotice && res.UsedFallback {
		body["error"] = service.FallbackNotice
	}
	return body
}

// Chat 处理已登录用户的提问：保存对话，优先调用模型，失败时使用固定回答。
func (h *ChatHandler) Chat(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "无效的请求负载：content 不能为空")
		return
	}

	userID := user.ID
	res, err := h.chatService.Handle(c.Request.Context(), &userID, req.Content)
	if err != nil {
		respondServiceError(c, err, "Failed to process chat message")
		return
	}
	c.JSON(http.StatusOK, chatResponse(res, true))
}

// Offline 处理匿名提问，只做关键词分类和固定回答，不保存任何数据。
func (h *ChatHandler) Offline(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "无效的请求负载：content 不能为空")
		return
	}
	res, err := h.chatService.Handle(c.Request.Context(), nil, req.Content)
	if err != nil {
		respondServiceError(c, err, "Failed to process chat message")
		return
	}
	c.JSON(http.StatusOK, chatResponse(res, false))
}

// Handle 处理一个传入的 WebSocket 连接。每个问题对应一条完整的 JSON 回答帧。
func (h *ChatHandler) Handle(c *gin.Context) {
	user, _, ok := middleware.Authenticate(c, h.jwtManager, h.userService, c.Param("token"))
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Infow("WebSocket 连接已建立", "userId", user.ID, "session", sessionID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			break
		}

		content := parseFrame(message)
		userID := user.ID
		res, err := h.chatService.Handle(c.Request.Context(), &userID, content)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				if werr := writeFrame(conn, gin.H{"type": "error", "message": err.Error()}); werr != nil {
					break
				}
				continue
			}
			log.Errorf("处理 WebSocket 消息失败, session: %s, error: %v", sessionID, err)
			_ = writeFrame(conn, gin.H{"type": "error", "message": "Failed to process chat message"})
			break
		}

		frame := chatResponse(res, true)
		frame["type"] = "answer"
		if err := writeFrame(conn, frame); err != nil {
			log.Warnf("写入 WebSocket 消息失败: %v", err)
			break
		}
	}
	log.Infow("WebSocket 连接已关闭", "userId", user.ID, "session", sessionID)
}

// parseFrame 接受 {"content": "..."} 或纯文本。
func parseFrame(message []byte) string {
	trimmed := strings.TrimSpace(string(message))
	if strings.HasPrefix(trimmed, "{") {
		var req ChatRequest
		if err := json.Unmarshal(message, &req); err == nil {
			return req.Content
		}
	}
	return string(message)
}

func writeFrame(conn *websocket.Conn, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
