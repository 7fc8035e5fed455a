package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/services/auth"
	"github.com/quizhaus/quizhaus/internal/services/halloffame"
	"github.com/quizhaus/quizhaus/internal/services/questionbank"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Player handlers

type playerHandler struct {
	auth *auth.Service
}

func newPlayerHandler(authService *auth.Service) *playerHandler {
	return &playerHandler{auth: authService}
}

type playerResponse struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
}

func toPlayerResponse(p *model.Player) playerResponse {
	return playerResponse{
		PlayerID:    string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

func (h *playerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.auth.CreateGuest(r.Context(), req.DisplayName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create guest")
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func (h *playerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	player, err := h.auth.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func (h *playerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, toPlayerResponse(player))
}

// Category handlers

type categoriesHandler struct {
	bank *questionbank.Service
}

func newCategoriesHandler(bank *questionbank.Service) *categoriesHandler {
	return &categoriesHandler{bank: bank}
}

func (h *categoriesHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.bank.Categories()})
}

// Hall-of-fame handlers

type hallOfFameHandler struct {
	hof *halloffame.Service
}

func newHallOfFameHandler(hof *halloffame.Service) *hallOfFameHandler {
	return &hallOfFameHandler{hof: hof}
}

func (h *hallOfFameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerName  string `json:"playerName"`
		QuestionSet string `json:"questionSet"`
		Score       int    `json:"score"`
		UserID      string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record := &model.ScoreRecord{
		PlayerName:  req.PlayerName,
		QuestionSet: req.QuestionSet,
		Score:       req.Score,
		UserID:      model.PlayerID(req.UserID),
	}
	if err := h.hof.Submit(r.Context(), record); err != nil {
		if errors.Is(err, model.ErrInvalidScore) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "score submission failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": record.ID})
}

func (h *hallOfFameHandler) Top(w http.ResponseWriter, r *http.Request) {
	questionSet := mux.Vars(r)["questionSet"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.hof.Top(r.Context(), questionSet, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "leaderboard lookup failed")
		return
	}
	if records == nil {
		records = []model.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": records})
}
