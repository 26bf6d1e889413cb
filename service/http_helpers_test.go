package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func Test_WriteJSON(t *testing.T) {
	tests := []struct {
		name           string
		data           interface{}
		expectedStatus int
		validateBody   func(t *testing.T, body string)
	}{
		{
			name:           "Simple map",
			data:           map[string]string{"key": "value"},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body string) {
				var result map[string]string
				require.NoError(t, json.Unmarshal([]byte(body), &result))
				require.Equal(t, "value", result["key"])
			},
		},
		{
			name:           "Struct data",
			data:           struct{ Name string }{"test"},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body string) {
				var result struct{ Name string }
				require.NoError(t, json.Unmarshal([]byte(body), &result))
				require.Equal(t, "test", result.Name)
			},
		},
		{
			name:           "Indented output",
			data:           map[string]int{"a": 1},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body string) {
				require.Equal(t, "{\n  \"a\": 1\n}\n", body)
			},
		},
		{
			name:           "Nil data",
			data:           nil,
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body string) {
				require.Equal(t, "null\n", body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteJSON(w, tt.expectedStatus, tt.data)

			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))
			tt.validateBody(t, w.Body.String())
		})
	}
}

func Test_WriteError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, status, "something went wrong")

			require.Equal(t, status, w.Code)
			var result map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			require.Equal(t, "something went wrong", result["error"])
		})
	}
}

func Test_CORSMiddleware(t *testing.T) {
	t.Run("Regular request", func(t *testing.T) {
		handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
		require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("OPTIONS request", func(t *testing.T) {
		handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("Handler should not be called for OPTIONS request")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/test", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func Test_LoggingMiddleware(t *testing.T) {
	t.Run("logs method, path and status", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/preview?rows=5", nil))
		require.Equal(t, http.StatusNotFound, w.Code)

		entries := logs.FilterMessage("request").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		require.Equal(t, "GET", fields["method"])
		require.Equal(t, "/preview", fields["path"])
		require.Equal(t, int64(http.StatusNotFound), fields["status"])
		require.Equal(t, "rows=5", fields["query"])
	})

	t.Run("implicit status", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/info", nil))
		fields := logs.All()[0].ContextMap()
		require.Equal(t, int64(http.StatusOK), fields["status"])
		require.NotContains(t, fields, "query")
	})

	t.Run("nil logger", func(t *testing.T) {
		called := false
		handler := LoggingMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/info", nil))
		require.True(t, called)
	})
}

func Test_FormatGoCode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{"valid code", "package main\nfunc main() {\n}\n", false},
		{"formatting issues", "package main\nfunc main(){}\n", false},
		{"struct definition", "package main\ntype Foo struct {\nBar string\n}\n", false},
		{"invalid code", "this is not valid go code!!!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FormatGoCode(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(result, "package main"))
		})
	}
}
