package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/store"
)

type askRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Alias    string `json:"alias"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Alias   string `json:"alias,omitempty"`
}

type recognizeResponse struct {
	Success    bool     `json:"success"`
	Objects    []string `json:"objects,omitempty"`
	Message    string   `json:"message,omitempty"`
	Type       string   `json:"type,omitempty"`
	Error      string   `json:"error,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// persist queues the exchange for storage. Never blocks the handler.
func (s *Server) persist(userID, message, reply string) {
	if s.queue == nil {
		return
	}
	s.queue.SaveUser(userID, "")
	s.queue.SaveMessage(userID, store.SenderUsuario, message)
	if reply != "" {
		s.queue.SaveMessage(userID, store.SenderBot, reply)
	}
}

func parseAsk(c *fiber.Ctx) (message, userID string, err error) {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return "", "", err
	}
	message = strings.ToLower(strings.TrimSpace(req.Message))
	userID = req.UserID
	if userID == "" {
		userID = "default"
	}
	return message, userID, nil
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	message, userID, err := parseAsk(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Reply{Reply: "Formato no válido", Status: "error"})
	}
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(Reply{Reply: "Escribe tu mensaje", Status: "error"})
	}

	// Prefer the language service; fall back to the rule engine.
	if s.wit.Configured() {
		result, err := s.wit.Message(c.Context(), message)
		if err != nil {
			log.Warn("wit.ai unavailable, using rules", "error", err)
		} else if result.Intent() != "" {
			reply := s.responder.FromIntent(result.Intent(), result.Entities, userID)
			s.persist(userID, message, reply.Reply)
			return c.JSON(reply)
		}
	}

	reply := s.responder.Basic(message, userID)
	s.persist(userID, message, reply.Reply)
	return c.JSON(reply)
}

func (s *Server) handleWitai(c *fiber.Ctx) error {
	message, userID, err := parseAsk(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Reply{Reply: "Formato no válido", Status: "error"})
	}
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(Reply{Reply: "Escribe tu mensaje", Status: "error"})
	}
	if !s.wit.Configured() {
		return c.Status(fiber.StatusBadRequest).JSON(Reply{Reply: "Wit.ai no configurado", Status: "error"})
	}

	result, err := s.wit.Message(c.Context(), message)
	if err != nil {
		log.Error("wit.ai request failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(Reply{
			Reply:  "Error al conectar con Wit.ai. Intenta más tarde.",
			Status: "error",
		})
	}
	if result.Intent() == "" {
		return c.JSON(Reply{Reply: "No entendí tu solicitud. ¿Podrías reformularla?", Status: "success"})
	}

	reply := s.responder.FromIntent(result.Intent(), result.Entities, userID)
	s.persist(userID, message, reply.Reply)
	return c.JSON(reply)
}

func (s *Server) handleRecognize(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(recognizeResponse{Success: false, Error: "No se recibió imagen"})
	}
	if file.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(recognizeResponse{Success: false, Error: "Archivo sin nombre"})
	}
	if !s.deepai.Configured() {
		return c.Status(fiber.StatusBadRequest).JSON(recognizeResponse{
			Success:    false,
			Error:      "API Key no configurada",
			Suggestion: "Obtenga una API Key gratuita en https://deepai.org/",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(recognizeResponse{Success: false, Error: "No se recibió imagen"})
	}
	defer src.Close()
	image, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(recognizeResponse{Success: false, Error: "No se recibió imagen"})
	}

	labels, err := s.deepai.Recognize(c.Context(), image, file.Filename)
	if err != nil {
		log.Error("recognition request failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(recognizeResponse{
			Success: false,
			Error:   fmt.Sprintf("Error al comunicarse con el servicio de reconocimiento: %v", err),
		})
	}
	if len(labels) == 0 {
		return c.JSON(recognizeResponse{Success: false, Error: "No se detectaron objetos claros"})
	}

	return c.JSON(recognizeResponse{
		Success: true,
		Objects: labels,
		Message: fmt.Sprintf("Reconocí estos objetos: %s. ¿Quieres aprender a escribir alguna de estas palabras?", strings.Join(labels, ", ")),
		Type:    "object_recognition",
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(authResponse{Success: false, Message: "Nombre de usuario y contraseña son requeridos"})
	}
	if s.accounts == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(authResponse{Success: false, Message: "Base de datos no disponible"})
	}

	account, err := s.accounts.Authenticate(c.Context(), req.Username, HashPassword(req.Password))
	if err != nil {
		if !errors.Is(err, store.ErrBadCredentials) {
			log.Error("login failed", "username", req.Username, "error", err)
		}
		return c.JSON(authResponse{Success: false, Message: "Credenciales inválidas"})
	}
	return c.JSON(authResponse{Success: true, UserID: account.UserID, Alias: account.Alias})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(authResponse{Success: false, Message: "Nombre de usuario y contraseña son requeridos"})
	}
	if s.accounts == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(authResponse{Success: false, Message: "Base de datos no disponible"})
	}

	userID, err := s.accounts.CreateAccount(c.Context(), req.Username, HashPassword(req.Password), req.Alias)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return c.JSON(authResponse{Success: false, Message: "El nombre de usuario ya está en uso"})
		}
		log.Error("registration failed", "username", req.Username, "error", err)
		return c.JSON(authResponse{Success: false, Message: "Error al crear el usuario"})
	}

	if s.queue != nil {
		s.queue.SaveUser(userID, req.Alias)
	}
	return c.JSON(authResponse{Success: true, UserID: userID, Alias: req.Alias})
}

func (s *Server) handleMessages(c *fiber.Ctx) error {
	if s.queue == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "error": "Base de datos no disponible"})
	}
	userID := c.Params("user_id")
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(store.DefaultMessageLimit)))

	messages, err := s.queue.Messages(c.Context(), userID, limit)
	if err != nil {
		log.Error("loading history failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Error al cargar el historial"})
	}
	if messages == nil {
		messages = []store.StoredMessage{}
	}
	return c.JSON(fiber.Map{"success": true, "messages": messages})
}
