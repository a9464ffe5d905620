package assinafytest_test

import (
	"context"
	"fmt"
	"log"

	"github.com/adamwoolhether/assinafy/assinafytest"
	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/signer"
)

func ExampleNewServer() {
	srv := assinafytest.NewServer()
	defer srv.Close()

	ws := srv.AddWorkspace("Acme")

	c, err := srv.Client(client.WithDefaultAccount(ws.ID))
	if err != nil {
		log.Fatal(err)
	}

	s, err := signer.New(c).Create(context.Background(), signer.CreateRequest{FullName: "Ana Souza", Email: "ana@example.com"})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(s.FullName, s.Email)
	// Output: Ana Souza ana@example.com
}
