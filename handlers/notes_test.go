package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/andreyantropov/SkillNotes/models"
)

func (s *E2ETestSuite) notePath(suffix string) string {
	return "/notes/" + strconv.Itoa(s.noteID) + suffix
}

func (s *E2ETestSuite) Test10_CreateNote() {
	var note models.Note
	resp := s.do("POST", "/notes", s.tokenA, map[string]string{
		"title": "Shopping List",
		"text":  "# Groceries\n\n- milk\n- eggs",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.decode(resp, &note)
	s.True(note.ID > 0)
	s.Equal("Shopping List", note.Title)
	s.False(note.IsArchived)
	s.noteID = note.ID
}

func (s *E2ETestSuite) Test11_CreateNoteEmptyTitle() {
	resp := s.do("POST", "/notes", s.tokenA, map[string]string{
		"title": "   ",
		"text":  "no title",
	})
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test12_GetNoteWithHTML() {
	var note models.Note
	resp := s.do("GET", s.notePath(""), s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &note)
	s.Equal(s.noteID, note.ID)
	s.Contains(note.HTML, "<h1")
	s.Contains(note.Text, "# Groceries")
}

func (s *E2ETestSuite) Test13_OtherUserSeesNotFound() {
	for _, probe := range []struct{ method, path string }{
		{"GET", s.notePath("")},
		{"PATCH", s.notePath("")},
		{"POST", s.notePath("/archive")},
		{"POST", s.notePath("/unarchive")},
		{"DELETE", s.notePath("")},
	} {
		var body interface{}
		if probe.method == "PATCH" {
			body = map[string]string{"title": "stolen", "text": ""}
		}
		resp := s.do(probe.method, probe.path, s.tokenB, body)
		resp.Body.Close()
		s.Equal(http.StatusNotFound, resp.StatusCode, "%s %s", probe.method, probe.path)
	}
}

func (s *E2ETestSuite) Test14_EditNote() {
	var note models.Note
	resp := s.do("PATCH", s.notePath(""), s.tokenA, map[string]string{
		"title": "Shopping List v2",
		"text":  "updated",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &note)
	s.Equal("Shopping List v2", note.Title)
	s.Equal("updated", note.Text)
	s.False(note.IsArchived)
}

func (s *E2ETestSuite) Test15_ArchiveIsIdempotent() {
	for i := 0; i < 2; i++ {
		var note models.Note
		resp := s.do("POST", s.notePath("/archive"), s.tokenA, nil)
		s.Equal(http.StatusOK, resp.StatusCode)
		s.decode(resp, &note)
		s.True(note.IsArchived)
	}
}

func (s *E2ETestSuite) Test16_ArchivedNoteOnlyInArchiveBucket() {
	var page struct {
		Data    []models.Note `json:"data"`
		HasMore bool          `json:"hasMore"`
	}

	resp := s.do("GET", "/notes?age=one_week", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &page)
	for _, n := range page.Data {
		s.NotEqual(s.noteID, n.ID)
	}

	resp = s.do("GET", "/notes?age=archive", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &page)
	found := false
	for _, n := range page.Data {
		if n.ID == s.noteID {
			found = true
		}
	}
	s.True(found)
}

func (s *E2ETestSuite) Test17_Unarchive() {
	var note models.Note
	resp := s.do("POST", s.notePath("/unarchive"), s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &note)
	s.False(note.IsArchived)
	s.Equal("Shopping List v2", note.Title)
}

func (s *E2ETestSuite) Test18_SearchByTitle() {
	var page struct {
		Data    []models.Note `json:"data"`
		HasMore bool          `json:"hasMore"`
	}

	resp := s.do("GET", "/notes?age=all_time&search=shop", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &page)
	found := false
	for _, n := range page.Data {
		if n.ID == s.noteID {
			found = true
		}
	}
	s.True(found)

	resp = s.do("GET", "/notes?age=all_time&search=xyzzy", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &page)
	s.Len(page.Data, 0)
}

func (s *E2ETestSuite) Test19_ExportDownload() {
	resp := s.do("GET", s.notePath("/export"), s.tokenA, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "text/html")
	s.Contains(resp.Header.Get("Content-Disposition"), "attachment")
	body, err := io.ReadAll(resp.Body)
	s.NoError(err)
	s.Contains(string(body), "<title>Shopping List v2</title>")
}

func (s *E2ETestSuite) Test20_DeleteNote() {
	resp := s.do("DELETE", s.notePath(""), s.tokenA, nil)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do("GET", s.notePath(""), s.tokenA, nil)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	// Deleting again reports not found, not an error.
	resp = s.do("DELETE", s.notePath(""), s.tokenA, nil)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *E2ETestSuite) Test21_DeleteAllArchived() {
	var created models.Note
	for _, title := range []string{"old 1", "old 2", "old 3"} {
		resp := s.do("POST", "/notes", s.tokenA, map[string]string{"title": title, "text": ""})
		s.Equal(http.StatusCreated, resp.StatusCode)
		s.decode(resp, &created)
		resp = s.do("POST", "/notes/"+strconv.Itoa(created.ID)+"/archive", s.tokenA, nil)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)
	}
	resp := s.do("POST", "/notes", s.tokenA, map[string]string{"title": "stays", "text": ""})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var result struct {
		Deleted int `json:"deleted"`
	}
	resp = s.do("DELETE", "/notes", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &result)
	s.Equal(3, result.Deleted)

	resp = s.do("DELETE", "/notes", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &result)
	s.Equal(0, result.Deleted)
}

func (s *E2ETestSuite) Test22_InvalidIDIsValidationError() {
	resp := s.do("GET", "/notes/not-a-number", s.tokenA, nil)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test23_UnknownAgeDefaultsToOneWeek() {
	var page struct {
		Data    []models.Note `json:"data"`
		HasMore bool          `json:"hasMore"`
	}
	resp := s.do("GET", "/notes?age=bogus", s.tokenA, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &page)
	// The "stays" note from the previous test is recent and active.
	found := false
	for _, n := range page.Data {
		if n.Title == "stays" {
			found = true
		}
	}
	s.True(found)
}
