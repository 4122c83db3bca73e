package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kainpos/internal/config"
	"kainpos/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxActorIDKey   = "actor_id"   // int64
	CtxActorNameKey = "actor_name" // string
	CtxActorRoleKey = "actor_role" // string
)

// bearerAuth用のJWT検証ミドルウェア。
// トークンの発行は外部の認証基盤。ここは検証と操作者の取り出しだけ。
func ActorJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//claimsを取り出す
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//actorのidを取り出す
			actorID, err := parseActorID(claims["sub"])
			if err != nil || actorID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//usernameを取り出す
			username, err := parseString(claims["username"])
			if err != nil || username == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//roleを取り出す（OWNER/INVENTORY/CASHIER）
			role, err := parseString(claims["role"])
			if err != nil || !validRole(model.Role(role)) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxActorIDKey, actorID)
			c.Set(CtxActorNameKey, username)
			c.Set(CtxActorRoleKey, role)

			return next(c)
		}
	}
}

// ActorFromContext はミドルウェアが保存した操作者を組み立てる。
func ActorFromContext(c echo.Context) (model.Actor, bool) {
	id, ok := c.Get(CtxActorIDKey).(int64)
	if !ok || id <= 0 {
		return model.Actor{}, false
	}
	name, ok := c.Get(CtxActorNameKey).(string)
	if !ok || name == "" {
		return model.Actor{}, false
	}
	role, ok := c.Get(CtxActorRoleKey).(string)
	if !ok || !validRole(model.Role(role)) {
		return model.Actor{}, false
	}
	return model.Actor{ID: id, Username: name, Role: model.Role(role)}, true
}

func validRole(r model.Role) bool {
	switch r {
	case model.RoleOwner, model.RoleInventory, model.RoleCashier:
		return true
	}
	return false
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// subをint64に変換する
func parseActorID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
