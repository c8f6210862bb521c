package tag

import (
	"fmt"
	"strings"

	"github.com/contre95/tagmend/src/features/fixing"
	"github.com/contre95/tagmend/src/music"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

var vorbisFields = map[music.Field]string{
	music.FieldAlbum:  flacvorbis.FIELD_ALBUM,
	music.FieldTitle:  flacvorbis.FIELD_TITLE,
	music.FieldArtist: flacvorbis.FIELD_ARTIST,
	music.FieldGenre:  flacvorbis.FIELD_GENRE,
}

// flacStore is a tag store over a FLAC file's Vorbis comment block.
// Sets are buffered and applied in Save; all other metadata blocks
// (pictures included) pass through untouched.
type flacStore struct {
	path    string
	file    *goflac.File
	comment *flacvorbis.MetaDataBlockVorbisComment
	index   int
	pending map[music.Field]string
}

func openFLAC(path string) (fixing.Store, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fixing.ErrUnsupportedContainer, err)
	}

	var comment *flacvorbis.MetaDataBlockVorbisComment
	index := -1
	for idx, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			comment, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", fixing.ErrUnsupportedContainer, err)
			}
			index = idx
			break
		}
	}
	if comment == nil {
		comment = flacvorbis.New()
	}

	return &flacStore{
		path:    path,
		file:    f,
		comment: comment,
		index:   index,
		pending: make(map[music.Field]string),
	}, nil
}

func (s *flacStore) Get(field music.Field) *string {
	values, err := s.comment.Get(vorbisFields[field])
	if err != nil || len(values) == 0 || values[0] == "" {
		return nil
	}
	v := values[0]
	return &v
}

func (s *flacStore) Set(field music.Field, value string) {
	s.pending[field] = value
}

func (s *flacStore) Save() error {
	for _, field := range music.Fields {
		value, ok := s.pending[field]
		if !ok {
			continue
		}
		name := vorbisFields[field]
		s.remove(name)
		if err := s.comment.Add(name, value); err != nil {
			return fmt.Errorf("failed to set %s comment: %w", name, err)
		}
	}

	block := s.comment.Marshal()
	if s.index >= 0 {
		s.file.Meta[s.index] = &block
	} else {
		s.file.Meta = append(s.file.Meta, &block)
	}

	if err := s.file.Save(s.path); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}
	return nil
}

// remove drops every existing comment for name; vorbis field names
// compare case-insensitively.
func (s *flacStore) remove(name string) {
	kept := s.comment.Comments[:0]
	for _, c := range s.comment.Comments {
		if i := strings.IndexByte(c, '='); i >= 0 && strings.EqualFold(c[:i], name) {
			continue
		}
		kept = append(kept, c)
	}
	s.comment.Comments = kept
}

func (s *flacStore) Close() error {
	return nil
}
