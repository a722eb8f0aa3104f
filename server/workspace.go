package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/sop-console/activity"
	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/credentials"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/rs/zerolog/log"
)

// newWorkspace builds the credential store, session client and idle monitor
// for one browser session. The workspace is not registered yet.
func (s *Server) newWorkspace(id string) *workspaces.Workspace {
	ws := &workspaces.Workspace{
		ID:        id,
		Store:     s.storeFor(id),
		CreatedAt: time.Now(),
	}
	ws.Monitor = activity.New(s.config.GetIdleTimeout(), func() {
		ws.Client.EndSession(context.Background(), apiclient.CauseIdle)
	}, activity.WithClock(s.clock))

	opts := []apiclient.Option{
		apiclient.WithNotifier(ws.Monitor),
		apiclient.WithPolicy(s.policy),
		apiclient.WithMetrics(s.metrics),
		apiclient.WithLogoutFunc(func(cause apiclient.LogoutCause) {
			s.dropWorkspace(id, cause)
		}),
	}
	if s.httpClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(s.httpClient))
	}
	ws.Client = apiclient.New(s.apiConfig, ws.Store, opts...)
	return ws
}

func (s *Server) storeFor(id string) credentials.Store {
	if s.redis != nil {
		return credentials.NewRedisStore(s.redis, id, s.config.GetSessionTTL())
	}
	return credentials.NewMemoryStore()
}

// lookupWorkspace finds the workspace for a session id. With redis configured,
// a session whose credentials outlived a console restart is picked up again.
func (s *Server) lookupWorkspace(ctx context.Context, id string) (*workspaces.Workspace, error) {
	ws, err := s.workspaces.Get(id)
	if err == nil || !errors.Is(err, workspaces.ErrNotFound) || s.redis == nil {
		return ws, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, workspaces.ErrNotFound
	}

	ws = s.newWorkspace(id)
	session, err := ws.Store.Read(ctx)
	if err != nil {
		return nil, err
	}
	if session.Empty() {
		return nil, workspaces.ErrNotFound
	}
	if err := s.workspaces.Upsert(ws); err != nil {
		return nil, err
	}
	ws.Monitor.Start()
	log.Info().Str("workspace", id).Msg("resumed session from stored credentials")
	return ws, nil
}

// dropWorkspace forgets a workspace after its session ended. It is safe to call
// more than once.
func (s *Server) dropWorkspace(id string, cause apiclient.LogoutCause) {
	ws, err := s.workspaces.Delete(id)
	if err != nil {
		return
	}
	ws.Monitor.Stop()
	log.Info().Str("workspace", id).Str("cause", string(cause)).Msg("workspace closed")
}
