package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vancomm/treetop/internal/forest"
)

// ConnectWS surveys every text message as a grid and replies with the result.
// Nothing is persisted.
func (h SurveyHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	if h.ws.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.ws.MaxMessageBytes)
	}

	err = h.wsRunSurveyLoop(r.Context(), conn)
	if err != nil && !websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway,
	) {
		h.logger.Warn("websocket closed", slog.Any("error", err))
	}
}

func (h SurveyHandler) wsRunSurveyLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text only"),
			)
		}

		grid, err := forest.Parse(string(buf))
		if err != nil {
			if err := conn.WriteJSON(parseErrorDTO(err)); err != nil {
				return err
			}
			continue
		}

		survey, err := forest.Analyze(ctx, grid)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := conn.WriteJSON(NewTransientSurveyDTO(grid, survey)); err != nil {
			return err
		}
	}
}
