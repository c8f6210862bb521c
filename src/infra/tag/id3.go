package tag

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
	"github.com/contre95/tagmend/src/features/fixing"
	"github.com/contre95/tagmend/src/music"
)

// id3Store is a tag store over an MP3 file's ID3v2 container.
type id3Store struct {
	tag *id3v2.Tag
}

func openID3(path string) (fixing.Store, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fixing.ErrUnsupportedContainer, err)
	}
	// Repaired values are full UTF-8, never the latin-esque bytes they
	// replace.
	t.SetDefaultEncoding(id3v2.EncodingUTF8)
	return &id3Store{tag: t}, nil
}

func (s *id3Store) Get(field music.Field) *string {
	var v string
	switch field {
	case music.FieldAlbum:
		v = s.tag.Album()
	case music.FieldTitle:
		v = s.tag.Title()
	case music.FieldArtist:
		v = s.tag.Artist()
	case music.FieldGenre:
		v = s.tag.Genre()
	}
	if v == "" {
		return nil
	}
	return &v
}

func (s *id3Store) Set(field music.Field, value string) {
	switch field {
	case music.FieldAlbum:
		s.tag.SetAlbum(value)
	case music.FieldTitle:
		s.tag.SetTitle(value)
	case music.FieldArtist:
		s.tag.SetArtist(value)
	case music.FieldGenre:
		s.tag.SetGenre(value)
	}
}

func (s *id3Store) Save() error {
	if err := s.tag.Save(); err != nil {
		return fmt.Errorf("failed to save ID3 tags: %w", err)
	}
	return nil
}

func (s *id3Store) Close() error {
	return s.tag.Close()
}
