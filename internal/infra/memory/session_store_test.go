package memory

import (
	"fmt"
	"sync"
	"testing"

	"quizbot/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected no session")
	}
	store.Set("u1", domain.Session{ID: "s1", UserID: "u1"})
	session, ok := store.Get("u1")
	if !ok || session.ID != "s1" {
		t.Fatalf("expected session s1, got %+v ok=%v", session, ok)
	}

	if !store.Remove("u1") {
		t.Fatalf("expected remove to report presence")
	}
	if store.Remove("u1") {
		t.Fatalf("expected second remove to report absence")
	}
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreUpdate(t *testing.T) {
	store := NewSessionStore()

	if store.Update("missing", func(s *domain.Session) { s.Score = 10 }) {
		t.Fatalf("expected update on missing key to be a no-op")
	}
	if store.Len() != 0 {
		t.Fatalf("update must not create sessions")
	}

	store.Set("u1", domain.Session{ID: "s1"})
	store.Update("u1", func(s *domain.Session) {
		s.Score++
		s.Answers = append(s.Answers, domain.AnswerRecord{QuestionID: 7})
	})
	session, _ := store.Get("u1")
	if session.Score != 1 || len(session.Answers) != 1 {
		t.Fatalf("expected mutation persisted, got %+v", session)
	}
}

func TestSessionStoreReturnsCopies(t *testing.T) {
	store := NewSessionStore()
	store.Set("u1", domain.Session{ID: "s1", Answers: []domain.AnswerRecord{{QuestionID: 1}}})

	session, _ := store.Get("u1")
	session.Score = 99
	session.Answers[0].QuestionID = 99

	again, _ := store.Get("u1")
	if again.Score != 0 || again.Answers[0].QuestionID != 1 {
		t.Fatalf("store state leaked through a returned copy: %+v", again)
	}
}

func TestSessionStoreConcurrentUsers(t *testing.T) {
	store := NewSessionStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", i)
			store.Set(user, domain.Session{ID: user})
			for j := 0; j < 10; j++ {
				store.Update(user, func(s *domain.Session) { s.Score++ })
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Fatalf("expected 50 sessions, got %d", store.Len())
	}
	for i := 0; i < 50; i++ {
		session, _ := store.Get(fmt.Sprintf("u%d", i))
		if session.Score != 10 {
			t.Fatalf("expected score 10 for u%d, got %d", i, session.Score)
		}
	}
}
