package models

// DocumentIDs holds the store identifiers of the three artifact documents of
// a topic.
type DocumentIDs struct {
	Index       string `json:"index"`
	Development string `json:"development"`
	Voiceover   string `json:"voiceover"`
}

// TopicFolder mirrors one topic in the materialized tree.
type TopicFolder struct {
	TopicNumber string      `json:"topicNumber"`
	FolderID    string      `json:"folderId"`
	Docs        DocumentIDs `json:"docs"`
}

// ModuleFolder mirrors one module in the materialized tree.
type ModuleFolder struct {
	ModuleNumber int           `json:"moduleNumber"`
	FolderID     string        `json:"folderId"`
	Topics       []TopicFolder `json:"topics"`
}

// FolderStructure is the materialized-identifier mirror of a CourseSpec.
// Built once by the materializer and read-only afterwards.
type FolderStructure struct {
	CourseFolderID string         `json:"courseFolderId"`
	Modules        []ModuleFolder `json:"modules"`
}

// Topic looks up the materialized folder for a topic by module number and
// topic number. Returns false when the pair is not part of the structure.
func (f *FolderStructure) Topic(moduleNumber int, topicNumber string) (TopicFolder, bool) {
	for _, m := range f.Modules {
		if m.ModuleNumber != moduleNumber {
			continue
		}
		for _, t := range m.Topics {
			if t.TopicNumber == topicNumber {
				return t, true
			}
		}
	}
	return TopicFolder{}, false
}
