package testutil

// OrdersProject is the reference project: one explore on a view that has no
// file, joined to a view that exists and has a primary key.
func OrdersProject() map[string]string {
	return map[string]string{
		"models/shop.model.lkml": "explore: orders { join: customers { relationship: many_to_one; sql_on: orders.customer_id = customers.id ;; } }\n",
		"views/customers.view.lkml": `view: customers {
  sql_table_name: public.customers ;;

  dimension: id {
    primary_key: yes
    type: number
    sql: ${TABLE}.id ;;
  }
}
`,
	}
}

// MixedProject exercises most rules at once.
func MixedProject() map[string]string {
	return map[string]string{
		"models/sales.model.lkml": `# Sales model
explore: order_items {
  description: "Line items"
  view_name: order_items
  join: products {
    relationship: many_to_one
    sql_on: ${order_items.product_id} = ${products.id} ;;
  }
  join: users {
    sql_on: LOWER(${order_items.email}) = ${users.email} ;;
  }
  join: Customer_Orders {
    relationship: one_to_many
    sql_on: ${Customer_Orders.user_id} = ${users.id} ;;
  }
}

explore: inventory {
  from: inventory_items
}
`,
		"views/order_items.view.lkml": `view: order_items {
  dimension: id {
    primary_key: yes
    description: "Surrogate key"
  }
  dimension: product_id {}
  measure: count {
    type: count
  }
  measure: total {
    description: "Sum of sale price"
  }
}
`,
		"views/catalog/products.view.lkml": `view: products {
  dimension: id {
    primary_key: yes
  }
}
view: product_facts {
  dimension: product_id {}
}
`,
		"views/users.view.lkml": `view: users {
  extends: [base_users]
  dimension: email {}
}
`,
		"views/legacy/Customer_Orders.view.lkml": `view: Customer_Orders {
  dimension: id {
    primary_key: yes
  }
}
`,
		"views/inventory_items.view.lkml": `view: inventory_items {
}
`,
	}
}
