package prompts

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSearchFilterBlank(t *testing.T) {
	for _, search := range []string{"", "   ", "\t\n"} {
		if got := searchFilter(search); len(got) != 0 {
			t.Errorf("searchFilter(%q) = %v, want empty filter", search, got)
		}
	}
}

func TestSearchFilterFields(t *testing.T) {
	filter := searchFilter("Cat")

	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v, want two clauses", filter["$or"])
	}

	for i, field := range []string{"title", "description"} {
		clause, ok := or[i].(bson.M)
		if !ok {
			t.Fatalf("clause %d = %#v", i, or[i])
		}
		pattern, ok := clause[field].(bson.M)
		if !ok {
			t.Fatalf("clause %d has no %s pattern: %v", i, field, clause)
		}
		if pattern["$regex"] != "Cat" {
			t.Errorf("%s $regex = %v, want Cat", field, pattern["$regex"])
		}
		if pattern["$options"] != "i" {
			t.Errorf("%s $options = %v, want i", field, pattern["$options"])
		}
	}
}

func TestSearchFilterLiteral(t *testing.T) {
	tests := []struct {
		search string
		match  string
		miss   string
	}{
		{"a.b", "an a.b title", "axb"},
		{"(draft)", "sketch (draft)", "draft"},
		{"c++", "c++ poster", "ccc"},
		{"50%*", "50%* off", "500"},
		{"cat ", "cat one", "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			or := searchFilter(tt.search)["$or"].(bson.A)
			expr := or[0].(bson.M)["title"].(bson.M)["$regex"].(string)

			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				t.Fatalf("compile %q: %v", expr, err)
			}
			if !re.MatchString(tt.match) {
				t.Errorf("%q does not match %q", expr, tt.match)
			}
			if re.MatchString(tt.miss) {
				t.Errorf("%q matches %q", expr, tt.miss)
			}
		})
	}
}

func TestMapMongoError(t *testing.T) {
	if err := mapMongoError("find", mongo.ErrNoDocuments); !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrNoDocuments mapped to %v, want ErrNotFound", err)
	}

	wrapped := fmt.Errorf("decode: %w", mongo.ErrNoDocuments)
	if err := mapMongoError("update", wrapped); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrapped ErrNoDocuments mapped to %v, want ErrNotFound", err)
	}

	boom := errors.New("connection reset")
	err := mapMongoError("update", boom)
	if errors.Is(err, ErrNotFound) {
		t.Error("driver failure mapped to ErrNotFound")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want it to wrap the driver error", err)
	}
	if err.Error() != "update prompt: connection reset" {
		t.Errorf("message = %q", err.Error())
	}
	if MapHTTPStatus(err) != 500 {
		t.Errorf("status = %d, want 500", MapHTTPStatus(err))
	}
}
