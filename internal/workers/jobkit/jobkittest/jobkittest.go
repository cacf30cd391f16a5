// Package jobkittest provides in-memory stand-ins for the engine and the
// artifact store in worker tests.
package jobkittest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/models"
)

// Gateway records the job commands a worker sends.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	Completed []*pb.CompleteJobRequest
	Failed    []*pb.FailJobRequest
	Thrown    []*pb.ThrowErrorRequest

	// CompleteErr, when set, is returned for every CompleteJob call.
	CompleteErr error
}

func (g *Gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CompleteErr != nil {
		return nil, g.CompleteErr
	}
	g.Completed = append(g.Completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Failed = append(g.Failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Thrown = append(g.Thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

// CompletedVariables decodes the variables of the only completed job.
func (g *Gateway) CompletedVariables() (map[string]interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Completed) != 1 {
		return nil, fmt.Errorf("expected one completed job, got %d", len(g.Completed))
	}
	var vars map[string]interface{}
	err := json.Unmarshal([]byte(g.Completed[0].Variables), &vars)
	return vars, err
}

func noRetry(context.Context, error) bool { return false }

// JobClient implements worker.JobClient on top of a recording Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// MemoryStore is a map-backed artifact store.
type MemoryStore struct {
	mu     sync.Mutex
	items  map[string]*models.GeneratedArtifact
	next   int
	PutErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]*models.GeneratedArtifact{}}
}

func (s *MemoryStore) Put(_ context.Context, a *models.GeneratedArtifact) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	if a == nil || len(a.Data) == 0 {
		return "", fmt.Errorf("%w: only inline artifacts can be stored", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	key := fmt.Sprintf("artifact:%d", s.next)
	copied := *a
	s.items[key] = &copied
	return key, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.GeneratedArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrArtifactNotFound, key)
	}
	copied := *a
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Seed stores a directly and returns its key.
func (s *MemoryStore) Seed(mediaType string, data []byte) string {
	key, _ := s.Put(context.Background(), &models.GeneratedArtifact{MediaType: mediaType, Data: data})
	return key
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
