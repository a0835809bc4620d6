package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pentestreports/mcp-server/pkg/client"
	"github.com/pentestreports/mcp-server/pkg/storage"
)

type Server struct {
	mcp.Server
	api     *client.Client
	storage storage.Storage
}

func NewServer(impl *mcp.Implementation, api *client.Client, store storage.Storage) *Server {
	return &Server{
		Server:  *mcp.NewServer(impl, nil),
		api:     api,
		storage: store,
	}
}

func (s *Server) API() *client.Client {
	return s.api
}

func (s *Server) Storage() storage.Storage {
	return s.storage
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
