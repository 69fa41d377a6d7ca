package core

// The namespace vocabulary is a closed set loaded into these package-level
// tables. Both maps are read-only after init and safe for concurrent
// readers; keeping them in memory avoids a SQL join on namespace tables.

// namespaceNames maps namespace ids to canonical names.
var namespaceNames = map[int]string{
	0: "Article", 1: "Talk", 2: "User", 3: "User_talk",
	4: "Wikipedia", 5: "Wikipedia_talk", 6: "File", 7: "File_talk",
	8: "Mediawiki", 9: "Mediawiki_talk", 10: "Template", 11: "Template_talk",
	12: "Help", 13: "Help_talk", 14: "Category", 15: "Category_talk",
	100: "Portal", 101: "Portal_talk", 108: "Book", 109: "Book_talk",
}

// namespaceIDs maps namespace names back to ids. "Project" is a synonym
// for the Wikipedia namespace.
var namespaceIDs = map[string]int{
	"Article": 0, "Talk": 1, "User": 2, "User_talk": 3,
	"Wikipedia": 4, "Project": 4, "Wikipedia_talk": 5,
	"File": 6, "File_talk": 7, "Mediawiki": 8, "Mediawiki_talk": 9,
	"Template": 10, "Template_talk": 11, "Help": 12, "Help_talk": 13,
	"Category": 14, "Category_talk": 15, "Portal": 100, "Portal_talk": 101,
	"Book": 108, "Book_talk": 109,
}

// Namespace ids with special roles in rollups.
const (
	ArticleNamespace     = 0
	ProjectNamespace     = 4 // "Wikipedia"/"Project" pages
	ProjectTalkNamespace = 5
)

// MatrixNamespaces is the fixed column vocabulary of the activity matrix.
// Every project record carries one zero-filled counter per id in this list;
// activity in ids outside the list is absorbed into the totals only.
var MatrixNamespaces = []int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	100, 101, 108, 109, 118, 119, 446, 447, 710, 711, 828, 829, 2600,
}

// NamespaceName returns the canonical name for a namespace id.
func NamespaceName(id int) (string, bool) {
	name, ok := namespaceNames[id]
	return name, ok
}

// NamespaceID returns the namespace id for a canonical name.
func NamespaceID(name string) (int, bool) {
	id, ok := namespaceIDs[name]
	return id, ok
}
