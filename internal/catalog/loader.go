package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/models"
)

// Loader loads lesson and path content from a directory of YAML files and
// serves it from memory. Content is static reference data: loaded once at
// startup, read-only afterwards.
//
// Files ending in .lessons.yaml contribute lessons, files ending in
// .paths.yaml contribute paths. Lessons keep file order (files walked in
// sorted path order), which defines "first lesson in a topic".
type Loader struct {
	mu       sync.RWMutex
	lessons  []models.Lesson
	byID     map[string]models.Lesson
	paths    map[string]models.LearningPath
	pathList []models.LearningPath
	topics   []string
	log      *logger.Logger
}

// NewLoader loads all content under rootDir. A malformed content file
// fails the load outright; a path referencing unknown lessons is kept (the
// engine substitutes fallback records) but logged.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		byID:  make(map[string]models.Lesson),
		paths: make(map[string]models.LearningPath),
		log:   logger.Default().WithPrefix("catalog"),
	}

	if err := l.loadAll(rootDir); err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	l.log.Info("catalog loaded: %d lessons, %d topics, %d paths", len(l.lessons), len(l.topics), len(l.pathList))
	return l, nil
}

func (l *Loader) loadAll(rootDir string) error {
	var lessonFiles, pathFiles []string
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		switch {
		case strings.HasSuffix(path, ".lessons.yaml"), strings.HasSuffix(path, ".lessons.yml"):
			lessonFiles = append(lessonFiles, path)
		case strings.HasSuffix(path, ".paths.yaml"), strings.HasSuffix(path, ".paths.yml"):
			pathFiles = append(pathFiles, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(lessonFiles)
	sort.Strings(pathFiles)

	seenTopics := make(map[string]bool)
	for _, path := range lessonFiles {
		var file lessonsFile
		if err := readYAML(path, &file); err != nil {
			return err
		}
		for _, lesson := range file.Lessons {
			if lesson.ID == "" || lesson.Topic == "" {
				return fmt.Errorf("%s: lesson missing id or topic", path)
			}
			if _, dup := l.byID[lesson.ID]; dup {
				return fmt.Errorf("%s: duplicate lesson id %q", path, lesson.ID)
			}
			l.lessons = append(l.lessons, lesson)
			l.byID[lesson.ID] = lesson
			if !seenTopics[lesson.Topic] {
				seenTopics[lesson.Topic] = true
				l.topics = append(l.topics, lesson.Topic)
			}
		}
		l.log.Debug("loaded %d lessons from %s", len(file.Lessons), path)
	}

	for _, path := range pathFiles {
		var file pathsFile
		if err := readYAML(path, &file); err != nil {
			return err
		}
		for _, p := range file.Paths {
			if p.ID == "" {
				return fmt.Errorf("%s: path missing id", path)
			}
			if _, dup := l.paths[p.ID]; dup {
				return fmt.Errorf("%s: duplicate path id %q", path, p.ID)
			}
			for _, lessonID := range p.Lessons {
				if _, ok := l.byID[lessonID]; !ok {
					l.log.Warn("path %s references unknown lesson %s", p.ID, lessonID)
				}
			}
			l.paths[p.ID] = p
			l.pathList = append(l.pathList, p)
		}
		l.log.Debug("loaded %d paths from %s", len(file.Paths), path)
	}

	return nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Lessons returns all lessons in catalog order.
func (l *Loader) Lessons() []models.Lesson {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Lesson, len(l.lessons))
	copy(out, l.lessons)
	return out
}

// LessonsByTopic returns lessons for one topic in catalog order.
func (l *Loader) LessonsByTopic(topic string) []models.Lesson {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.Lesson
	for _, lesson := range l.lessons {
		if lesson.Topic == topic {
			out = append(out, lesson)
		}
	}
	return out
}

// Lesson returns a lesson by id.
func (l *Loader) Lesson(id string) (models.Lesson, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lesson, ok := l.byID[id]
	return lesson, ok
}

// LessonIndex returns a copy of the id -> lesson map.
func (l *Loader) LessonIndex() map[string]models.Lesson {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]models.Lesson, len(l.byID))
	for id, lesson := range l.byID {
		out[id] = lesson
	}
	return out
}

// Topics returns all topics in first-seen catalog order.
func (l *Loader) Topics() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.topics))
	copy(out, l.topics)
	return out
}

// TopicLessonCount counts catalog lessons in a topic. Mastery records
// carry this as totalLessons; it is not derivable from quiz history.
func (l *Loader) TopicLessonCount(topic string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, lesson := range l.lessons {
		if lesson.Topic == topic {
			n++
		}
	}
	return n
}

// Paths returns all learning paths in catalog order.
func (l *Loader) Paths() []models.LearningPath {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.LearningPath, len(l.pathList))
	copy(out, l.pathList)
	return out
}

// Path returns a learning path by id.
func (l *Loader) Path(id string) (models.LearningPath, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.paths[id]
	return p, ok
}
