// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Получить токен",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.LoginResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "401": {"description": "Неверное имя или пароль", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Caller"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/participants": {
            "get": {
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Список участников",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Зарегистрировать участника",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.RegisterParticipantInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Имя уже занято", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/participants/{participantID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Удалить участника",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "participantID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/participants/{participantID}/active": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Активировать или деактивировать участника",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "participantID", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"active": {"type": "boolean"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/rounds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Список туров",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Сгенерировать следующий тур",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.GeneratedRound"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Нет участников или конкурентная генерация", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/rounds/current": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Последний тур",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RoundMatches"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/rounds/{roundID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["rounds"],
                "summary": "Удалить тур",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "roundID", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "В туре уже есть результаты", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/rounds/{roundID}/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Матчи тура",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "roundID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RoundMatches"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Матч с результатами",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "matchID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/matches/{matchID}/results": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Записать результаты матча",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "matchID", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"results": {"type": "array", "items": {"$ref": "#/definitions/models.ResultEntry"}}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Ни одного результата не выбрано", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/matches/{matchID}/results/{playerID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Удалить результат игрока",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "matchID", "required": true},
                    {"type": "integer", "in": "path", "name": "playerID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/swaps": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pairings"],
                "summary": "Поменять игроков местами",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.SwapInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Турнирная таблица",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/standings/export": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Выгрузить таблицу в хранилище",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/services.ExportResult"}},
                    "503": {"description": "Хранилище не настроено", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rounds"],
                "summary": "Сбросить турнир",
                "description": "Удаляет всех участников, туры, матчи и результаты. Только для администратора.",
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/players/{participantID}/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Матчи игрока",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "participantID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.errorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "retryable": {"type": "boolean"}
            }
        },
        "models.Caller": {
            "type": "object",
            "properties": {
                "participant_id": {"type": "integer"},
                "name": {"type": "string"},
                "is_admin": {"type": "boolean"}
            }
        },
        "models.Match": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "round_id": {"type": "integer"},
                "table_number": {"type": "integer"},
                "player_ids": {"type": "array", "items": {"type": "integer"}},
                "completed": {"type": "boolean"}
            }
        },
        "models.GeneratedRound": {
            "type": "object",
            "properties": {
                "round": {"type": "integer"},
                "round_id": {"type": "integer"},
                "matches": {"type": "array", "items": {"$ref": "#/definitions/models.Match"}}
            }
        },
        "models.RoundMatches": {
            "type": "object",
            "properties": {
                "round": {"type": "integer"},
                "round_id": {"type": "integer"},
                "matches": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.ResultEntry": {
            "type": "object",
            "properties": {
                "player_id": {"type": "integer"},
                "win": {"type": "integer"},
                "loss": {"type": "integer"},
                "draw": {"type": "integer"},
                "points": {"type": "integer"}
            }
        },
        "services.LoginInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.LoginResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "caller": {"$ref": "#/definitions/models.Caller"}
            }
        },
        "services.RegisterParticipantInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.SwapInput": {
            "type": "object",
            "properties": {
                "match_a": {"type": "integer"},
                "slot_a": {"type": "integer"},
                "match_b": {"type": "integer"},
                "slot_b": {"type": "integer"}
            }
        },
        "services.ExportResult": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "url": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Swiss Tables API",
	Description:      "Swiss-system rounds for four-player tables: pairings, results, standings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
