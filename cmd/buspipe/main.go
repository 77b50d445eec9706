// Buspipe simulates elastic valid/ready relay pipelines and their
// composition into a five-channel AXI4 bus pipeline.
package main

func main() {
	Execute()
}
