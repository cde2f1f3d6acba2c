// Command client runs a short demo session against a running server:
// login as the admin user, create a figure, read it back, list the
// catalog, delete the figure and say goodbye.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/heartmarshall/figstore/internal/client"
	"github.com/heartmarshall/figstore/internal/transport/tcp"
)

func main() {
	addr := flag.String("addr", "localhost:3000", "server address")
	insecure := flag.Bool("insecure", false, "skip TLS certificate verification (self-signed dev certs)")
	username := flag.String("user", "pepe", "login username")
	password := flag.String("pass", "pepe1234", "login password")
	flag.Parse()

	c, err := client.Dial(*addr, *insecure)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}

	if err := c.Login(*username, *password); err != nil {
		log.Fatalf("login: %v", err)
	}
	fmt.Println("logged in as", *username)

	created, err := c.Create(tcp.FigurePayload{
		Name:        "Iron Man",
		Category:    "MARVEL",
		Price:       "29.99",
		ReleaseDate: "2023-05-12",
	})
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	fmt.Printf("created figure id=%d code=%s\n", created.ID, created.Code)

	fetched, err := c.GetByID(created.ID)
	if err != nil {
		log.Fatalf("get by id: %v", err)
	}
	fmt.Printf("fetched %s (%s) %s\n", fetched.Name, fetched.Category, fetched.Price)

	all, err := c.GetAll()
	if err != nil {
		log.Fatalf("get all: %v", err)
	}
	fmt.Printf("catalog holds %d figures\n", len(all))

	if _, err := c.Delete(created.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("deleted figure", created.ID)

	if err := c.Close(); err != nil {
		log.Fatalf("close: %v", err)
	}
	fmt.Println("bye")
}
