package backlink

import (
	"reflect"
	"testing"

	"github.com/guidechat/backend/pkg/knowledge"
)

var columns = []string{"Name", "Website", "Social_Media", "Price"}

func table(records ...[]string) []knowledge.Row {
	return knowledge.NewTable(columns, records).Rows
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		rows []knowledge.Row
		want []Source
	}{
		{
			name: "website link for mentioned row",
			text: "You should try Taverna X tonight.",
			rows: table([]string{"Taverna X", "http://x.example", "", "Δεν αναφέρεται"}),
			want: []Source{{Title: "Taverna X - Website", URI: "http://x.example"}},
		},
		{
			name: "case insensitive match",
			text: "TAVERNA x is great",
			rows: table([]string{"Taverna X", "https://x.example", "", ""}),
			want: []Source{{Title: "Taverna X - Website", URI: "https://x.example"}},
		},
		{
			name: "social media when website missing",
			text: "Cafe Y has a view",
			rows: table([]string{"Cafe Y", "", "https://social.example/y", ""}),
			want: []Source{{Title: "Cafe Y - Social Media", URI: "https://social.example/y"}},
		},
		{
			name: "website wins over social media in the same row",
			text: "Cafe Y",
			rows: table([]string{"Cafe Y", "https://y.example", "https://social.example/y", ""}),
			want: []Source{{Title: "Cafe Y - Website", URI: "https://y.example"}},
		},
		{
			name: "invalid website falls back to social media",
			text: "Cafe Y",
			rows: table([]string{"Cafe Y", "www.y.example", "https://social.example/y", ""}),
			want: []Source{{Title: "Cafe Y - Social Media", URI: "https://social.example/y"}},
		},
		{
			name: "duplicate names produce one link",
			text: "Bar Z twice",
			rows: table(
				[]string{"Bar Z", "https://z.example", "", ""},
				[]string{"Bar Z", "", "https://social.example/z", ""},
			),
			want: []Source{{Title: "Bar Z - Website", URI: "https://z.example"}},
		},
		{
			name: "unmentioned rows ignored",
			text: "Nothing relevant here",
			rows: table([]string{"Taverna X", "http://x.example", "", ""}),
			want: []Source{},
		},
		{
			name: "rows without name ignored",
			text: "anything",
			rows: table([]string{"", "http://x.example", "", ""}),
			want: []Source{},
		},
		{
			name: "row without links ignored",
			text: "Taverna X",
			rows: table([]string{"Taverna X", "", "", ""}),
			want: []Source{},
		},
		{
			name: "order follows rows",
			text: "B and A",
			rows: table(
				[]string{"A", "http://a.example", "", ""},
				[]string{"B", "http://b.example", "", ""},
			),
			want: []Source{
				{Title: "A - Website", URI: "http://a.example"},
				{Title: "B - Website", URI: "http://b.example"},
			},
		},
		{
			name: "greek final sigma folds",
			text: "Η ταβέρνα ΚΩΣΤΑΣ είναι καλή",
			rows: table([]string{"Κωστας", "https://kostas.example", "", ""}),
			want: []Source{{Title: "Κωστας - Website", URI: "https://kostas.example"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text, tt.rows, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected sources: got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestExtract_DoesNotModifyRows(t *testing.T) {
	rows := table([]string{"Taverna X", "http://x.example", "", "Μη διαθέσιμο"})
	Extract("Taverna X", rows, nil)
	if got := rows[0].Value("Price"); got != "Μη διαθέσιμο" {
		t.Fatalf("rows must not be modified, got price %q", got)
	}
}

func TestContainsMatcher_MatchesInsideWords(t *testing.T) {
	if !(ContainsMatcher{}).Matches("the Bartender said", "bar") {
		t.Fatal("expected substring match")
	}
}

func TestWordMatcher(t *testing.T) {
	tests := []struct {
		text string
		name string
		want bool
	}{
		{text: "the Bartender said", name: "bar", want: false},
		{text: "meet at Bar Z.", name: "bar z", want: true},
		{text: "bar", name: "bar", want: true},
		{text: "rebar and bar", name: "bar", want: true},
		{text: "Ταβέρνα Κώστας!", name: "κώστας", want: true},
		{text: "anything", name: "", want: false},
	}

	for _, tt := range tests {
		if got := (WordMatcher{}).Matches(tt.text, tt.name); got != tt.want {
			t.Fatalf("WordMatcher(%q, %q) = %v, want %v", tt.text, tt.name, got, tt.want)
		}
	}
}

func TestMatcherByName(t *testing.T) {
	if _, ok := MatcherByName("word").(WordMatcher); !ok {
		t.Fatal("expected WordMatcher")
	}
	if _, ok := MatcherByName("").(ContainsMatcher); !ok {
		t.Fatal("expected ContainsMatcher by default")
	}
}
