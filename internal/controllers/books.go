package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bookshelf/internal/models"
	"bookshelf/internal/store"
)

type BookController struct {
	books store.BookStore
	log   zerolog.Logger
}

func NewBookController(books store.BookStore, log zerolog.Logger) *BookController {
	return &BookController{books: books, log: log}
}

type bookPayload struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	PublishYear int    `json:"publishYear" binding:"required"`
	UserID      uint   `json:"userId"`
}

// List returns every book owned by the user in the path.
func (b *BookController) List(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"))
	if !ok {
		return
	}
	books, err := b.books.ListByUser(c.Request.Context(), userID)
	if err != nil {
		b.log.Error().Err(err).Uint("user_id", userID).Msg("list books")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetForEdit returns a book only to its owner; the userId query must match.
func (b *BookController) GetForEdit(c *gin.Context) {
	book, ok := b.find(c)
	if !ok {
		return
	}
	if strconv.FormatUint(uint64(book.UserID), 10) != c.Query("userId") {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid user id"})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (b *BookController) Details(c *gin.Context) {
	book, ok := b.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, book)
}

func (b *BookController) Create(c *gin.Context) {
	var p bookPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Send all required fields: title, author, publishYear"})
		return
	}
	book := models.Book{Title: p.Title, Author: p.Author, PublishYear: p.PublishYear, UserID: p.UserID}
	if err := b.books.Create(c.Request.Context(), &book); err != nil {
		b.log.Error().Err(err).Msg("create book")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (b *BookController) Update(c *gin.Context) {
	book, ok := b.find(c)
	if !ok {
		return
	}
	var p bookPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Send all required fields: title, author, publishYear"})
		return
	}
	book.Title = p.Title
	book.Author = p.Author
	book.PublishYear = p.PublishYear
	if err := b.books.Update(c.Request.Context(), book); err != nil {
		b.log.Error().Err(err).Uint("book_id", book.ID).Msg("update book")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (b *BookController) Delete(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := b.books.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
			return
		}
		b.log.Error().Err(err).Uint("book_id", id).Msg("delete book")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func (b *BookController) find(c *gin.Context) (*models.Book, bool) {
	id, ok := parseID(c, c.Param("id"))
	if !ok {
		return nil, false
	}
	book, err := b.books.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
			return nil, false
		}
		b.log.Error().Err(err).Uint("book_id", id).Msg("find book")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return nil, false
	}
	return book, true
}

func parseID(c *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
